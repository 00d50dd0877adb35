package repo

const (
	AppName = "AAWallet"

	// CfgFileName is the default config name
	CfgFileName = "config.toml"

	// defaultRepoRoot is the path to the default config dir location.
	defaultRepoRoot = "~/.aawallet"

	// rootPathEnvVar is the environment variable used to change the path root.
	rootPathEnvVar = "AAWALLET_PATH"

	envPrefix = "AAWALLET"

	pidFileName = "running.pid"

	LogsDirName = "logs"
)

const (
	KVStorageTypeLeveldb = "leveldb"
	KVStorageTypeMemory  = "memory"
	KVStorageCacheSize   = 4096
	KVStorageSync        = true

	// DefaultEntryPointAddr is the canonical v0.6 entry point address.
	DefaultEntryPointAddr = "0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789"

	DefaultAccountFactoryAddr = "0x9406Cc6185a346906296840746125a0E44976454"

	DefaultChainID = 1356
)

var (
	// BuildVersion is the version of the binary, set with ldflags
	BuildVersion = "dev"

	BuildCommit = "unknown"

	BuildDate = "unknown"
)
