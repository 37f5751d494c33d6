package config

import "time"

const (
	// DefaultProjectPath is the directory fixture roots are relative to
	DefaultProjectPath = "."
	// DefaultCompilerPath is the compiler under test, relative to the project path
	DefaultCompilerPath = "./compile"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultHistoryFile is the SQLite database holding past runs
	DefaultHistoryFile = "history.db"
	// DefaultProcessors is the default number of processors
	DefaultProcessors = 4
	// DefaultTimeout bounds every subprocess; zero waits forever
	DefaultTimeout = 60 * time.Second
	// DefaultHistoryLimit is the number of runs shown by the history command
	DefaultHistoryLimit = 10
)

// DefaultCheckOnlyFlag makes the compiler stop after semantic analysis
const DefaultCheckOnlyFlag = "-OC"

// DefaultPathsToIgnore are directories skipped when scanning fixture roots.
// Advanced programs are not part of the registry.
var DefaultPathsToIgnore = []string{
	"advanced",
}

// DefaultAssembler assembles and links the compiler's output. {asm} and {exe} are substituted.
var DefaultAssembler = []string{
	"arm-linux-gnueabi-gcc", "-o", "{exe}", "-mcpu=arm1176jzf-s", "-mtune=arm1176jzf-s", "{asm}",
}

// DefaultEmulator runs the linked program. {exe} is substituted.
var DefaultEmulator = []string{
	"qemu-arm", "-L", "/usr/arm-linux-gnueabi/", "{exe}",
}
