// Package errors provides structured error handling for preinstall.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (rc files, lock files)
//   - 4XX: Validation errors (versions, invoker)
//   - 6XX: Toolchain errors
//   - 7XX: External process errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates a failed environment validation.
	CategoryValidation Category = "VALIDATION"
	// CategoryToolchain indicates a missing or unusable native toolchain.
	CategoryToolchain Category = "TOOLCHAIN"
	// CategoryProcess indicates an external tool failed to run.
	CategoryProcess Category = "PROCESS"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal aborts the run immediately.
	SeverityFatal Severity = "FATAL"
	// SeverityError is accumulated and fails the run at the end.
	SeverityError Severity = "ERROR"
	// SeverityWarning is reported but never fails the run.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"
	ErrCodeConfigRead    = "ERR_102_CONFIG_READ"

	// IO errors (200-299)
	ErrCodeRCFileRead = "ERR_201_RC_FILE_READ"
	ErrCodeLockFailed = "ERR_202_LOCK_FAILED"

	// Validation errors (400-499)
	ErrCodeVersionMalformed      = "ERR_401_VERSION_MALFORMED"
	ErrCodeRuntimeVersion        = "ERR_402_RUNTIME_VERSION"
	ErrCodePackageManagerVersion = "ERR_403_PACKAGE_MANAGER_VERSION"
	ErrCodeWrongInvoker          = "ERR_404_WRONG_INVOKER"

	// Toolchain errors (600-699)
	ErrCodeToolchainMissing = "ERR_601_TOOLCHAIN_MISSING"
	ErrCodeSpectreSetup     = "ERR_602_SPECTRE_SETUP"

	// Process errors (700-799)
	ErrCodeVersionQuery   = "ERR_701_VERSION_QUERY"
	ErrCodeManagerInstall = "ERR_702_MANAGER_INSTALL"
	ErrCodeHeaderList     = "ERR_703_HEADER_LIST"
	ErrCodeHeaderInstall  = "ERR_704_HEADER_INSTALL"

	// Internal errors (900-999)
	ErrCodeInternal = "ERR_901_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_INVALID")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	case '6':
		return CategoryToolchain
	case '7':
		return CategoryProcess
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeHeaderList, ErrCodeHeaderInstall, ErrCodeLockFailed, ErrCodeRCFileRead:
		// Native builds cannot proceed without headers.
		return SeverityFatal
	case ErrCodeSpectreSetup:
		return SeverityWarning
	}
	return SeverityError
}
