package config

import (
	"os"
)

type Config struct {
	SocketPath string
	Variant    string
	DiskDir    string
	MountRoot  string
	LogLevel   string
}

func Load() *Config {
	return &Config{
		SocketPath: getEnv("LETHE_SOCKET", "/run/lethe/api.sock"),
		Variant:    getEnv("LETHE_VARIANT", ""),
		DiskDir:    getEnv("LETHE_DISK_DIR", "/dev/disk/ephemeral"),
		MountRoot:  getEnv("LETHE_MOUNT_ROOT", "/mnt"),
		LogLevel:   getEnv("LETHE_LOG_LEVEL", "INFO"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
