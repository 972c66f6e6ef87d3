package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"museumrewards/internal/coins"
)

type rewardsFile struct {
	DailyLogin *int `yaml:"daily_login"`
	FirstView  *int `yaml:"first_view"`
}

// LoadRewards reads reward amounts from a YAML file. Missing fields, or an
// empty path, keep the defaults.
func LoadRewards(path string) (coins.Rewards, error) {
	rewards := coins.DefaultRewards()
	if path == "" {
		return rewards, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rewards, fmt.Errorf("reading rewards %s: %w", path, err)
	}
	var f rewardsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return rewards, fmt.Errorf("parsing rewards: %w", err)
	}
	if f.DailyLogin != nil {
		if *f.DailyLogin <= 0 {
			return rewards, fmt.Errorf("daily_login must be positive, got %d", *f.DailyLogin)
		}
		rewards.DailyLogin = *f.DailyLogin
	}
	if f.FirstView != nil {
		if *f.FirstView <= 0 {
			return rewards, fmt.Errorf("first_view must be positive, got %d", *f.FirstView)
		}
		rewards.FirstView = *f.FirstView
	}
	return rewards, nil
}
