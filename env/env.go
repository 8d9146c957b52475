package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/c2h5oh/datasize"
)

// GetIntEnv gets an integer value from the environment and parses it
func GetIntEnv(name string, varName string) (int, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asInt, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("Environment variable value '%s' invalid for the %s ('%s'):\n%s",
			value, name, varName, err)
	}

	return asInt, nil
}

// GetIntEnvDefault gets an integer value from the environment,
// using the fallback if the variable is not set
func GetIntEnvDefault(name string, varName string, fallback int) (int, error) {
	if _, exists := os.LookupEnv(varName); !exists {
		return fallback, nil
	}

	return GetIntEnv(name, varName)
}

// GetDurationEnv gets a duration value from the environment and parses it
func GetDurationEnv(name string, varName string) (time.Duration, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asDuration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("Environment variable value '%s' invalid for the %s ('%s'):\n%s",
			value, name, varName, err)
	}

	return asDuration, nil
}

// GetDurationEnvDefault gets a duration value from the environment,
// using the fallback if the variable is not set
func GetDurationEnvDefault(name string, varName string, fallback time.Duration) (time.Duration, error) {
	if _, exists := os.LookupEnv(varName); !exists {
		return fallback, nil
	}

	return GetDurationEnv(name, varName)
}

// GetBytesEnv gets a byte size value (such as "2MB") from the environment and parses it
func GetBytesEnv(name string, varName string) (datasize.ByteSize, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	var size datasize.ByteSize
	err = size.UnmarshalText([]byte(value))
	if err != nil {
		return 0, fmt.Errorf("Environment variable value '%s' invalid for the %s ('%s'):\n%s",
			value, name, varName, err)
	}

	return size, nil
}

// GetBytesEnvDefault gets a byte size value from the environment,
// using the fallback if the variable is not set
func GetBytesEnvDefault(name string, varName string, fallback datasize.ByteSize) (datasize.ByteSize, error) {
	if _, exists := os.LookupEnv(varName); !exists {
		return fallback, nil
	}

	return GetBytesEnv(name, varName)
}

// GetEnv gets a string value from the environment and parses it
func GetEnv(name string, varName string) (string, error) {
	value, exists := os.LookupEnv(varName)
	if !exists {
		return "", fmt.Errorf("No environment variable found for the %s ('%s')", name, varName)
	}

	return value, nil
}

// GetEnvDefault gets a string value from the environment,
// using the fallback if the variable is not set or empty
func GetEnvDefault(varName string, fallback string) string {
	value, exists := os.LookupEnv(varName)
	if !exists || value == "" {
		return fallback
	}

	return value
}
