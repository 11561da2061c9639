package models

import "fmt"

// Environment represents a deployment tier for workflow execution.
type Environment string

const (
	EnvironmentSandbox     Environment = "sandbox"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
)

// Environments returns all known environments in a stable order.
func Environments() []Environment {
	return []Environment{
		EnvironmentSandbox,
		EnvironmentStaging,
		EnvironmentProduction,
		EnvironmentDevelopment,
	}
}

// Valid reports whether the environment is one of the known tiers.
func (e Environment) Valid() bool {
	switch e {
	case EnvironmentSandbox, EnvironmentStaging, EnvironmentProduction, EnvironmentDevelopment:
		return true
	default:
		return false
	}
}

// ParseEnvironment converts a string into an Environment.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(s)
	if !env.Valid() {
		return "", fmt.Errorf("unknown environment %q", s)
	}

	return env, nil
}
