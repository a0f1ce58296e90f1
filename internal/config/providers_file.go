package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// applyProvidersFile layers a YAML document over providers. Keys absent from
// the file keep their environment values, e.g.
//
//	apisports:
//	  base_url: https://v2.nba.api-sports.io
//	  timeout: 5s
//	oddsapi:
//	  markets: h2h,totals
func applyProvidersFile(path string, providers *Providers) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return err
	}
	if err := k.UnmarshalWithConf("", providers, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("decode providers: %w", err)
	}
	return nil
}
