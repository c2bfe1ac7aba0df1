package config

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type RabbitMQ struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Auth struct {
	Secret     string `yaml:"secret"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

type App struct {
	Database Database `yaml:"database"`
	Rabbit   RabbitMQ `yaml:"rabbitmq"`
	Auth     Auth     `yaml:"auth"`
}

func (a Auth) TTL() time.Duration { return time.Duration(a.TTLMinutes) * time.Minute }

func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, fmt.Errorf("read config: %w", err)
	}
	a := App{
		Database: Database{Port: 5432, SSLMode: "disable"},
		Rabbit:   RabbitMQ{Port: 5672, VHost: "/"},
		Auth:     Auth{TTLMinutes: 720},
	}
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if a.Database.Host == "" || a.Database.User == "" || a.Database.Database == "" {
		return App{}, fmt.Errorf("database config incomplete")
	}
	if a.Rabbit.Host == "" || a.Rabbit.User == "" {
		return App{}, fmt.Errorf("rabbitmq config incomplete")
	}
	if a.Auth.Secret == "" {
		return App{}, fmt.Errorf("auth secret missing")
	}
	return a, nil
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
