package configuration

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/maps"
	"github.com/spf13/pflag"

	"github.com/iotaledger/ringmix/ierrors"
)

// ErrNotSupported is returned by the provider methods that only make sense for byte based sources.
var ErrNotSupported = ierrors.New("pflag provider does not support this method")

// lowerPosflag implements a pflag command line provider that lower-cases all keys.
type lowerPosflag struct {
	delim   string
	flagset *pflag.FlagSet
	ko      *koanf.Koanf
}

// lowerPosflagProvider returns a provider for the flags of f with lower-cased keys, nested at delim.
//
// A flag that was not changed on the command line only contributes its default if ko does not hold the key yet,
// so defaults never shadow values loaded from a config file.
func lowerPosflagProvider(f *pflag.FlagSet, delim string, ko *koanf.Koanf) *lowerPosflag {
	return &lowerPosflag{
		flagset: f,
		delim:   delim,
		ko:      ko,
	}
}

// Read returns the nested map of all flags that are set or whose defaults apply.
func (p *lowerPosflag) Read() (map[string]interface{}, error) {
	values := make(map[string]interface{})
	p.flagset.VisitAll(func(f *pflag.Flag) {
		key := strings.ToLower(f.Name)
		if !f.Changed && (p.ko == nil || p.ko.Exists(key)) {
			return
		}

		values[key] = flagValue(p.flagset, f)
	})

	return maps.Unflatten(values, p.delim), nil
}

// flagValue returns the typed value of f. Durations and strings are kept as text and decoded on Unmarshal.
func flagValue(flagSet *pflag.FlagSet, f *pflag.Flag) interface{} {
	switch f.Value.Type() {
	case "int":
		i, _ := flagSet.GetInt(f.Name)

		return int64(i)
	case "bool":
		b, _ := flagSet.GetBool(f.Name)

		return b
	case "stringSlice":
		slice, _ := flagSet.GetStringSlice(f.Name)

		return slice
	default:
		return f.Value.String()
	}
}

// ReadBytes is not supported by the pflag provider.
func (p *lowerPosflag) ReadBytes() ([]byte, error) {
	return nil, ErrNotSupported
}

// Watch is not supported by the pflag provider.
func (p *lowerPosflag) Watch(_ func(event interface{}, err error)) error {
	return ErrNotSupported
}
