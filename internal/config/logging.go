package config

type Logging struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func NewLogging() (*Logging, error) {
	maxSize, err := intEnv("LOG_MAX_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	maxBackups, err := intEnv("LOG_MAX_BACKUPS", 3)
	if err != nil {
		return nil, err
	}
	maxAge, err := intEnv("LOG_MAX_AGE_DAYS", 28)
	if err != nil {
		return nil, err
	}
	return &Logging{
		File:       stringEnv("LOG_FILE", ""),
		MaxSizeMB:  maxSize,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAge,
	}, nil
}
