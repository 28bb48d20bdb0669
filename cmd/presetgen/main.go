package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v2"

	"github.com/spf13/viper"
)

// presetgen собирает конфиги configs/values_<profile>.yaml из базового
// файла и секций profiles.<name> с переопределениями.

const outDir = "configs"

func writeProfile(name string, settings map[string]interface{}) (string, error) {
	bs, err := yaml.Marshal(settings)
	if err != nil {
		return "", errors.Wrap(err, "marshal profile to yaml")
	}

	file := filepath.Join(outDir, fmt.Sprintf("values_%s.yaml", name))
	_ = os.Remove(file)
	out, err := os.Create(file)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", file)
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err = out.Write(bs); err != nil {
		_ = os.Remove(out.Name())
		return "", errors.Wrap(err, "write content")
	}
	return out.Name(), nil
}

func main() {
	viper.SetConfigName(".presets.base")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	profiles := viper.GetStringMap("profiles")
	if len(profiles) == 0 {
		panic("has no profiles in config")
	}

	base := viper.Sub("base")
	if base == nil {
		panic("has no base section in config")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		panic(fmt.Errorf("create output dir: %w", err))
	}

	for name := range profiles {
		merged := viper.New()
		for k, v := range base.AllSettings() {
			merged.Set(k, v)
		}
		if overrides := viper.Sub("profiles." + name); overrides != nil {
			for k, v := range overrides.AllSettings() {
				merged.Set(k, v)
			}
		}

		file, err := writeProfile(name, merged.AllSettings())
		if err != nil {
			panic(fmt.Errorf("can't generate profile %s: %w", name, err))
		}
		fmt.Printf("%s file complete\n", file)
	}
	fmt.Println("done")
}
