// config_test.go tests config files
package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileToTest is a relative path to the configuration file to test (ie. bridgebot/cmd/conf.json)
var fileToTest string = "../../cmd/conf.json"

// TestConfig extracts config from a file and checks values loaded
func TestConfig(t *testing.T) {
	conf, err := ExtractConfiguration(fileToTest)
	require.NoError(t, err)

	assert.Equal(t, "9100", conf.Port)
	assert.Equal(t, "file", conf.DBType)
	assert.Equal(t, "sepolia", conf.Deposit.Name)
	assert.Equal(t, uint64(11155111), conf.Deposit.ChainID)
	assert.Equal(t, "hemiSepolia", conf.Swap.Name)
	assert.Equal(t, "0xA18019E62f266C2E17e33398448e4105324e0d0F", conf.Swap.Router)
	assert.Equal(t, uint32(200000), conf.Pipeline.MinGasLimit)
	assert.Equal(t, 5000, conf.Pipeline.DelayMs)
	require.NoError(t, conf.Validate())
}

func TestDefaults(t *testing.T) {
	conf, err := ExtractConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, DepositDefault, conf.Deposit)
	assert.Equal(t, SwapDefault, conf.Swap)
	assert.Equal(t, PipelineDefault, conf.Pipeline)
	assert.Equal(t, LogUTCOffsetDefault, conf.LogUTCOffset)
}

func TestMissingFile(t *testing.T) {
	_, err := ExtractConfiguration("does-not-exist.json")
	require.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BB_DBTYPE", "mongodb")
	t.Setenv("BB_DBCONN", "mongodb://localhost:27017")
	t.Setenv("BB_MASKKEYS", "true")
	t.Setenv("BB_LOGUTCOFFSET", "0")
	t.Setenv("BB_SWAP", `{"name":"local","node":"http://localhost:8545","weth":"0x01","router":"0x02"}`)
	t.Setenv("BB_PIPELINE", `{"delayMs":0}`)

	conf, err := ExtractConfiguration(fileToTest)
	require.NoError(t, err)

	assert.Equal(t, "mongodb", conf.DBType)
	assert.Equal(t, "mongodb://localhost:27017", conf.DBConn)
	assert.True(t, conf.MaskKeys)
	assert.Equal(t, 0, conf.LogUTCOffset)
	assert.Equal(t, "local", conf.Swap.Name)
	assert.Equal(t, "http://localhost:8545", conf.Swap.Node)
	// fields absent from the env JSON keep their file values
	assert.Equal(t, uint64(743111), conf.Swap.ChainID)
	assert.Equal(t, 0, conf.Pipeline.DelayMs)
	assert.Equal(t, "0.1", conf.Pipeline.DepositAmount)
}

func TestEnvOverrideBadJSON(t *testing.T) {
	t.Setenv("BB_DEPOSIT", "{not json")

	_, err := ExtractConfiguration("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	conf, err := ExtractConfiguration("")
	require.NoError(t, err)

	bad := conf
	bad.Deposit.Node = ""
	assert.True(t, errors.Is(bad.Validate(), ErrNoNode))

	bad = conf
	bad.Swap.Router = ""
	assert.True(t, errors.Is(bad.Validate(), ErrNoAddress))

	bad = conf
	bad.Pipeline.DelayMs = -1
	assert.True(t, errors.Is(bad.Validate(), ErrBadDelay))

	bad = conf
	bad.DBType = "redis"
	assert.True(t, errors.Is(bad.Validate(), ErrBadType))

	bad = conf
	bad.MbType = "kafka"
	assert.True(t, errors.Is(bad.Validate(), ErrBadType))
}
