package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/vortexcfd/fsi-simulations/pkg/simulation"
)

// PromptForParameters collects values for every manifest parameter. Each
// parameter can be overridden by an FSI_<NAME> environment variable, and
// FSI_SKIP_PROMPTS=true suppresses interaction entirely for automation.
func PromptForParameters(params []simulation.Parameter) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	for _, param := range params {
		value, err := promptForParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		result[param.Name] = value
	}

	return result, nil
}

func promptForParameter(param simulation.Parameter) (interface{}, error) {
	envKey := "FSI_" + strings.ToUpper(param.Name)

	if os.Getenv("FSI_SKIP_PROMPTS") == "true" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return parseEnvValue(envValue, param)
		}
		if param.Default != nil {
			return param.Default, nil
		}
		if param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}

	// An environment value becomes the prompt default
	if envValue := os.Getenv(envKey); envValue != "" {
		if parsed, err := parseEnvValue(envValue, param); err == nil {
			param.Default = parsed
		}
	}

	switch param.Type {
	case "integer":
		return promptInteger(param)
	case "float":
		return promptFloat(param)
	case "string":
		return promptString(param)
	case "boolean":
		return promptBoolean(param)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

func parseEnvValue(value string, param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return strconv.Atoi(value)
	case "float":
		return strconv.ParseFloat(value, 64)
	case "boolean":
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}

func promptInteger(param simulation.Parameter) (interface{}, error) {
	var answer string
	prompt := &survey.Input{
		Message: promptMessage(param),
		Default: defaultString(param.Default),
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer: %w", param.Name, err)
	}
	return n, nil
}

func promptFloat(param simulation.Parameter) (interface{}, error) {
	var answer string
	prompt := &survey.Input{
		Message: promptMessage(param),
		Default: defaultString(param.Default),
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, err
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", param.Name, err)
	}
	return x, nil
}

func promptString(param simulation.Parameter) (interface{}, error) {
	if len(param.Options) > 0 {
		var answer string
		prompt := &survey.Select{
			Message: promptMessage(param),
			Options: param.Options,
			Default: defaultString(param.Default),
		}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return nil, err
		}
		return answer, nil
	}

	var answer string
	prompt := &survey.Input{
		Message: promptMessage(param),
		Default: defaultString(param.Default),
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func promptBoolean(param simulation.Parameter) (interface{}, error) {
	def := false
	if b, ok := param.Default.(bool); ok {
		def = b
	}
	var answer bool
	prompt := &survey.Confirm{
		Message: promptMessage(param),
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func promptMessage(param simulation.Parameter) string {
	if param.Description != "" {
		return fmt.Sprintf("%s (%s):", param.Name, param.Description)
	}
	return param.Name + ":"
}

func defaultString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
