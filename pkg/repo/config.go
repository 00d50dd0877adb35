package repo

import (
	"os"
	"path"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type Duration time.Duration

func (d *Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(*d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	x, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(x)
	return nil
}

func StringToTimeDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(Duration(5)) {
			return data, nil
		}

		d, err := time.ParseDuration(data.(string))
		if err != nil {
			return nil, err
		}
		return Duration(d), nil
	}
}

func (d *Duration) ToDuration() time.Duration {
	return time.Duration(*d)
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

type Config struct {
	Port       Port       `mapstructure:"port" toml:"port"`
	JsonRPC    JsonRPC    `mapstructure:"jsonrpc" toml:"jsonrpc"`
	Storage    Storage    `mapstructure:"storage" toml:"storage"`
	EntryPoint EntryPoint `mapstructure:"entry_point" toml:"entry_point"`
	Genesis    Genesis    `mapstructure:"genesis" toml:"genesis"`
	Monitor    Monitor    `mapstructure:"monitor" toml:"monitor"`
	Log        Log        `mapstructure:"log" toml:"log"`
}

type Port struct {
	JsonRpc int64 `mapstructure:"jsonrpc" toml:"jsonrpc"`
}

type JsonRPC struct {
	ReadTimeout     Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	WriteTimeout    Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	CorsAllowOrigin []string `mapstructure:"cors_allow_origin" toml:"cors_allow_origin"`

	// max user operations accepted by one aa_handleOps call
	MaxBatchSize int `mapstructure:"max_batch_size" toml:"max_batch_size"`
}

type Storage struct {
	KvType      string `mapstructure:"kv_type" toml:"kv_type"`
	KvCacheSize int    `mapstructure:"kv_cache_size" toml:"kv_cache_size"`
	Sync        bool   `mapstructure:"sync" toml:"sync"`
}

type EntryPoint struct {
	Address        string `mapstructure:"address" toml:"address"`
	AccountFactory string `mapstructure:"account_factory" toml:"account_factory"`
	ChainID        uint64 `mapstructure:"chain_id" toml:"chain_id"`

	// unit: wei
	BaseFee uint64 `mapstructure:"base_fee" toml:"base_fee"`
}

// Genesis is applied once, when the ledger is empty
type Genesis struct {
	Accounts []GenesisAccount `mapstructure:"accounts" toml:"accounts" json:"accounts"`
}

type GenesisAccount struct {
	Address string `mapstructure:"address" toml:"address" json:"address"`

	// unit: wei, decimal
	Balance string `mapstructure:"balance" toml:"balance" json:"balance"`
}

type Monitor struct {
	Enable bool `mapstructure:"enable" toml:"enable"`
}

type Log struct {
	Level            string `mapstructure:"level" toml:"level"`
	Filename         string `mapstructure:"filename" toml:"filename"`
	ReportCaller     bool   `mapstructure:"report_caller" toml:"report_caller"`
	EnableColor      bool   `mapstructure:"enable_color" toml:"enable_color"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp" toml:"disable_timestamp"`

	// unit: day
	MaxAge uint `mapstructure:"max_age" toml:"max_age"`

	RotationTime Duration  `mapstructure:"rotation_time" toml:"rotation_time"`
	Module       LogModule `mapstructure:"module" toml:"module"`
}

type LogModule struct {
	API            string `mapstructure:"api" toml:"api"`
	Storage        string `mapstructure:"storage" toml:"storage"`
	Ledger         string `mapstructure:"ledger" toml:"ledger"`
	Executor       string `mapstructure:"executor" toml:"executor"`
	SystemContract string `mapstructure:"system_contract" toml:"system_contract"`
}

func DefaultConfig() *Config {
	return &Config{
		Port: Port{
			JsonRpc: 8881,
		},
		JsonRPC: JsonRPC{
			ReadTimeout:     Duration(5 * time.Second),
			WriteTimeout:    Duration(10 * time.Second),
			CorsAllowOrigin: []string{"*"},
			MaxBatchSize:    100,
		},
		Storage: Storage{
			KvType:      KVStorageTypeLeveldb,
			KvCacheSize: KVStorageCacheSize,
			Sync:        KVStorageSync,
		},
		EntryPoint: EntryPoint{
			Address:        DefaultEntryPointAddr,
			AccountFactory: DefaultAccountFactoryAddr,
			ChainID:        DefaultChainID,
			BaseFee:        0,
		},
		Genesis: Genesis{
			Accounts: []GenesisAccount{},
		},
		Monitor: Monitor{
			Enable: true,
		},
		Log: Log{
			Level:            "info",
			Filename:         "aawallet",
			ReportCaller:     false,
			EnableColor:      true,
			DisableTimestamp: false,
			MaxAge:           30,
			RotationTime:     Duration(24 * time.Hour),
			Module: LogModule{
				API:            "info",
				Storage:        "info",
				Ledger:         "info",
				Executor:       "info",
				SystemContract: "info",
			},
		},
	}
}

func LoadConfig(repoRoot string) (*Config, error) {
	cfg, err := func() (*Config, error) {
		cfg := DefaultConfig()
		cfgPath := path.Join(repoRoot, CfgFileName)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			err := os.MkdirAll(repoRoot, 0755)
			if err != nil {
				return nil, errors.Wrap(err, "failed to build default config")
			}

			if err := writeConfigWithEnv(cfgPath, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to build default config")
			}
		} else {
			if err := CheckWritable(repoRoot); err != nil {
				return nil, err
			}
			if err := readConfigFromFile(cfgPath, cfg); err != nil {
				return nil, err
			}
		}

		return cfg, nil
	}()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}
