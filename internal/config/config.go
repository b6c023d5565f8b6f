package config

import (
	"fmt"
	"io/fs"
	"os"

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

type App struct {
	Database Database `yaml:"database"`
	RabbitMQ RabbitMQ `yaml:"rabbitmq"`

	// FeedSource selects where change signals come from: "postgres" for a
	// direct LISTEN (default), "rabbitmq" for the notifier's fanout bridge.
	FeedSource string `yaml:"feed_source"`
}

func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, fmt.Errorf("read config: %w", err)
	}
	a := App{
		Database:   Database{Port: 5432, SSLMode: "disable"},
		RabbitMQ:   RabbitMQ{Port: 5672, VHost: "/"},
		FeedSource: "postgres",
	}
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config: %w", err)
	}
	if a.Database.Host == "" || a.Database.User == "" || a.Database.Database == "" {
		return App{}, fmt.Errorf("database config incomplete")
	}
	if a.FeedSource != "postgres" && a.FeedSource != "rabbitmq" {
		return App{}, fmt.Errorf("feed_source must be postgres or rabbitmq, got %q", a.FeedSource)
	}
	if a.FeedSource == "rabbitmq" && a.RabbitMQ.Host == "" {
		return App{}, fmt.Errorf("rabbitmq config required when feed_source is rabbitmq")
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
