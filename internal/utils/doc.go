// Package utils exposes reusable helpers consumed by the flashaudit commands.
//
// It houses the ConfigurationLoader, which layers embedded defaults, configuration
// files, and environment variables through Viper, the LoggerFactory, which builds
// zap loggers in structured or console form, and the CommandContextAccessor used
// to carry per-run metadata through Cobra command contexts.
package utils
