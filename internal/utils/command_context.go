package utils

import "context"

const (
	configurationFilePathContextKeyConstant   = commandContextKey("configurationFilePath")
	loadedConfigurationFileContextKeyConstant = commandContextKey("loadedConfigurationFile")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the requested configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return accessor.withString(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the requested configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return accessor.lookupString(executionContext, configurationFilePathContextKeyConstant)
}

// WithLoadedConfigurationFile records the configuration file Viper actually read.
func (accessor CommandContextAccessor) WithLoadedConfigurationFile(parentContext context.Context, loadedConfigurationFile string) context.Context {
	return accessor.withString(parentContext, loadedConfigurationFileContextKeyConstant, loadedConfigurationFile)
}

// LoadedConfigurationFile reports the configuration file Viper read, if any.
func (accessor CommandContextAccessor) LoadedConfigurationFile(executionContext context.Context) (string, bool) {
	loadedConfigurationFile, available := accessor.lookupString(executionContext, loadedConfigurationFileContextKeyConstant)
	if !available || len(loadedConfigurationFile) == 0 {
		return "", false
	}
	return loadedConfigurationFile, true
}

func (accessor CommandContextAccessor) withString(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func (accessor CommandContextAccessor) lookupString(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	return value, available
}
