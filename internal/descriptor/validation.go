package descriptor

import (
	"context"
	"fmt"
	"strings"

	"github.com/gsanchezu/elasticbox-plugin/internal/config"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/health"
)

// AgentVariables are the variables a box needs so the CI host can turn an
// instance of it into a build agent.
var AgentVariables = []string{"JENKINS_URL", "SLAVE_NAME"}

// Level is the severity of a Validation.
type Level string

const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Validation is the outcome of a form check.
type Validation struct {
	Level   Level  `json:"level" yaml:"level"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// OK returns a passing validation with an optional message.
func OK(message string) Validation {
	return Validation{Level: LevelOK, Message: message}
}

// Warning returns a passing validation the user should read.
func Warning(message string) Validation {
	return Validation{Level: LevelWarning, Message: message}
}

// Failed returns a failing validation.
func Failed(message string) Validation {
	return Validation{Level: LevelError, Message: message}
}

// IsError reports whether the validation failed.
func (v Validation) IsError() bool {
	return v.Level == LevelError
}

// CloudSource provides the configured clouds and a client for each of them.
type CloudSource interface {
	Clouds() []config.Cloud
	Client(ctx context.Context, name string) (elasticbox.Client, error)
}

// CheckAgentBox checks that the box, or one of its child boxes, declares the
// agent variables. A box whose stack cannot be fetched passes.
func CheckAgentBox(ctx context.Context, c elasticbox.Client, box string) Validation {
	stack := BoxStack(ctx, c, box)
	if len(stack) == 0 {
		return OK("")
	}

	names := strings.Join(AgentVariables, ", ")
	if stack[0].HasVariables(AgentVariables...) {
		return OK("")
	}
	if len(stack) == 1 {
		return Failed(fmt.Sprintf("The selected box version does not have the following required variables: %s", names))
	}

	for _, child := range stack[1:] {
		if child.HasVariables(AgentVariables...) {
			return Warning(fmt.Sprintf("The required variables %s are detected in child box %s. They will be set by Jenkins at deployment time.", names, child.Name))
		}
	}
	return Failed(fmt.Sprintf("The selected box version and its child boxes do not have the following required variables: %s", names))
}

// CheckCloud checks that the cloud is configured and answers with the
// configured token.
func CheckCloud(ctx context.Context, src CloudSource, name string) Validation {
	if isBlank(name) {
		return Failed("Cloud is required")
	}
	if src == nil {
		return Failed("Cannot connect to the cloud")
	}

	c, err := src.Client(ctx, name)
	if err != nil {
		return Failed(errorMessage(err))
	}

	result := health.CheckCloud(ctx, c)
	if result.Err != nil {
		return Failed(errorMessage(result.Err))
	}
	return OK("")
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Cannot connect to the cloud"
}
