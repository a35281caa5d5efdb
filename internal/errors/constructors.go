package errors

// Convenience constructors for common error patterns

// Config errors

func ConfigNotFound(path string) *PipelineError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(field, reason string) *PipelineError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Loader errors

func ContentRootMissing(root string) *PipelineError {
	return New(CategoryFileSystem, SeverityFatal, "content root not found").
		WithContext("root", root)
}

func LoadFailed(path string, cause error) *PipelineError {
	return Wrap(cause, CategoryContent, SeverityFatal, "load failed").
		WithContext("path", path)
}

// Source errors

func GitSyncError(url string, cause error) *PipelineError {
	return Wrap(cause, CategoryGit, SeverityFatal, "content repository sync failed").
		WithContext("url", url)
}

// Index errors

func IndexFailed(cause error) *PipelineError {
	return Wrap(cause, CategoryIndex, SeverityFatal, "index construction failed")
}

// State errors

func StateError(operation string, cause error) *PipelineError {
	return Wrap(cause, CategoryState, SeverityError, "state store operation failed").
		WithContext("operation", operation)
}
