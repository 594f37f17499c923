package config

// Config is the top-level application configuration. It is read from a
// JSON file, with secrets optionally overridden from the environment.
type Config struct {
	API   *API
	DB    *DB
	Eth   *Eth
	Fee   *Fee
	Vault *Vault
	Proc  *Proc
	Log   *Log
}

// API holds HTTP server settings.
type API struct {
	Addr string
}

// DB holds PostgreSQL connection settings.
type DB struct {
	DBName   string
	Host     string
	Port     uint16
	User     string
	Password string
	SSLMode  string
}

// Eth holds ledger node settings.
type Eth struct {
	NodeURL string
	// ChainID for EIP-155 signing. Queried from the node when zero.
	ChainID int64
	// TokenContract is the ERC-20 contract address of the supported token.
	TokenContract  string
	TokenDecimals  int
	NativeDecimals int
	// ScanBlocks bounds how far back recent-transfer scans look.
	ScanBlocks uint64
	// Confirmations after which a transaction counts as final.
	Confirmations  uint64
	NativeGasLimit uint64
	TokenGasLimit  uint64
}

// Fee holds static fee estimates in native units. Token transfers cost a
// range depending on network congestion.
type Fee struct {
	Native   string
	TokenMin string
	TokenMax string
}

// Vault holds key-custody secrets.
type Vault struct {
	Secret       string
	PasswordSalt string
}

// Proc holds background scheduler settings.
type Proc struct {
	RefreshPause uint64 // In milliseconds.
	SweepPause   uint64 // In milliseconds.
}

// Log holds logging settings.
type Log struct {
	Level string
}

// NewConfig creates a default configuration.
func NewConfig() *Config {
	return &Config{
		API: &API{
			Addr: "localhost:8080",
		},
		DB: &DB{
			DBName:  "cryptopay",
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			SSLMode: "disable",
		},
		Eth: &Eth{
			NodeURL:        "http://localhost:8545",
			TokenContract:  "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			TokenDecimals:  6,
			NativeDecimals: 18,
			ScanBlocks:     240,
			Confirmations:  19,
			NativeGasLimit: 21000,
			TokenGasLimit:  65000,
		},
		Fee: &Fee{
			Native:   "0.00042",
			TokenMin: "0.0009",
			TokenMax: "0.0024",
		},
		Vault: &Vault{
			PasswordSalt: "crypto-pay",
		},
		Proc: &Proc{
			RefreshPause: 60000,
			SweepPause:   30000,
		},
		Log: &Log{
			Level: "info",
		},
	}
}
