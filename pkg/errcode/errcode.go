package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Model construction errors
	PatternValidationError
	DuplicateNameError
	ModelFileError
	ExpressionError

	// Network generation errors
	NoRulesError
	NoInitialConditionsError
	EngineNotFoundError
	EngineVersionError
	NetworkGenerationError
	NetworkParseError
	UnknownRuleError
	SpeciesNotFoundError

	// Simulation errors
	SimulationOutputError

	// Store errors
	StoreOpenError
	StoreWriteError
	StoreReadError
	DBConnectionError
	DBNotConnectedError
	SchemaMigrateError

	// Metrics errors
	MetricsWriteError
)
