package configuration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/iotaledger/ringmix/configuration"
	"github.com/iotaledger/ringmix/ierrors"
)

func writeFile(t *testing.T, name string, content []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return path
}

func TestFetchFlagset(t *testing.T) {
	testFlagSet := flag.NewFlagSet("", flag.ContinueOnError)
	testFlagSet.String("A", "123", "test")
	require.NoError(t, testFlagSet.Set("A", "321"))

	config := configuration.New()

	err := config.LoadFlagSet(testFlagSet)
	require.NoError(t, err)

	require.EqualValues(t, "321", config.String("A"))
}

func TestFetchEnvVars(t *testing.T) {
	testFlagSet := flag.NewFlagSet("", flag.ContinueOnError)
	testFlagSet.String("B", "322", "test")

	t.Setenv("TEST_B", "321")
	t.Setenv("TEST_C", "321")

	config := configuration.New()

	err := config.LoadFlagSet(testFlagSet)
	require.NoError(t, err)

	err = config.LoadEnvironmentVars("TEST")
	require.NoError(t, err)

	require.EqualValues(t, "321", config.String("B"))

	_, exists := config.All()["c"]
	require.False(t, exists, "expected read config value to not exist")
}

func TestFetchJSONFile(t *testing.T) {
	content, err := json.MarshalIndent(map[string]int{"C": 321}, "", "    ")
	require.NoError(t, err)

	config := configuration.New()
	require.NoError(t, config.LoadFile(writeFile(t, "config.json", content)))

	require.EqualValues(t, 321, config.Int("C"))
}

func TestFetchYAMLFile(t *testing.T) {
	content, err := yaml.Marshal(map[string]interface{}{
		"D": 321,
		"Logger": map[string]interface{}{
			"Level": "debug",
		},
	})
	require.NoError(t, err)

	config := configuration.New()
	require.NoError(t, config.LoadFile(writeFile(t, "config.yaml", content)))

	require.EqualValues(t, 321, config.Int("D"))
	require.Equal(t, "debug", config.String("logger.level"))
}

func TestFetchTOMLFile(t *testing.T) {
	content := []byte("Streams = 3\nMixInterval = \"20ms\"\n\n[Logger]\nEncoding = \"json\"\n")

	config := configuration.New()
	require.NoError(t, config.LoadFile(writeFile(t, "config.toml", content)))

	require.Equal(t, 3, config.Int("streams"))
	require.Equal(t, 20*time.Millisecond, config.Duration("mixInterval"))
	require.Equal(t, "json", config.String("logger.encoding"))
}

func TestLoadFileErrors(t *testing.T) {
	config := configuration.New()

	err := config.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.True(t, ierrors.Is(err, os.ErrNotExist))

	err = config.LoadFile(writeFile(t, "config.ini", []byte("a=1")))
	require.True(t, ierrors.Is(err, configuration.ErrUnknownConfigFormat))
}

func TestMergeParameters(t *testing.T) {
	testFlagSet := flag.NewFlagSet("", flag.ContinueOnError)
	testFlagSet.Int("F", 321, "test")
	testFlagSet.Int("E", 1, "test")

	t.Setenv("TEST_F", "322")

	content, err := json.MarshalIndent(map[string]int{"E": 321}, "", "    ")
	require.NoError(t, err)

	config := configuration.New()
	require.NoError(t, config.LoadFile(writeFile(t, "config.json", content)))
	require.NoError(t, config.LoadFlagSet(testFlagSet))
	require.NoError(t, config.LoadEnvironmentVars("TEST"))

	var exists bool

	_, exists = config.All()["e"]
	require.True(t, exists, "expected read config value to exist")

	// all keys should be lower cased
	_, exists = config.All()["E"]
	require.False(t, exists, "expected read config value to not exist")

	_, exists = config.All()["f"]
	require.True(t, exists, "expected read config value to exist")

	// the file wins over the flag default
	require.EqualValues(t, 321, config.Int("E"))

	// the env var wins over the flag default
	require.EqualValues(t, "322", config.String("F"))
	require.EqualValues(t, 322, config.Int("F"))
}

type parameters struct {
	Streams         int           `koanf:"streams"`
	ProduceInterval time.Duration `koanf:"produceinterval"`
	RelaxedWrite    bool          `koanf:"relaxedwrite"`
	Logger          struct {
		Level       string   `koanf:"level"`
		OutputPaths []string `koanf:"outputpaths"`
	} `koanf:"logger"`
}

func TestUnmarshal(t *testing.T) {
	testFlagSet := flag.NewFlagSet("", flag.ContinueOnError)
	testFlagSet.Int("streams", 2, "")
	testFlagSet.Duration("produceInterval", 10*time.Millisecond, "")
	testFlagSet.Bool("relaxedWrite", false, "")
	testFlagSet.String("logger.level", "info", "")
	testFlagSet.StringSlice("logger.outputPaths", []string{"stdout"}, "")
	require.NoError(t, testFlagSet.Parse([]string{"--streams=5", "--relaxedWrite"}))

	config := configuration.New()
	require.NoError(t, config.LoadFlagSet(testFlagSet))

	var params parameters
	require.NoError(t, config.Unmarshal("", &params))

	require.Equal(t, 5, params.Streams)
	require.Equal(t, 10*time.Millisecond, params.ProduceInterval)
	require.True(t, params.RelaxedWrite)
	require.Equal(t, "info", params.Logger.Level)
	require.Equal(t, []string{"stdout"}, params.Logger.OutputPaths)
}
