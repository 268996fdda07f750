package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/gosimple/slug"
	"github.com/spf13/viper"
)

// RewardItem is one redeemable entry in the EcoCoins catalog.
type RewardItem struct {
	Code        string `mapstructure:"code" json:"code"`
	Name        string `mapstructure:"name" json:"name"`
	Description string `mapstructure:"description" json:"description"`
	Cost        int64  `mapstructure:"cost" json:"cost"`
}

// RewardCatalog is the full redeemable catalog.
type RewardCatalog struct {
	Items []RewardItem `mapstructure:"items" json:"items"`
}

// DefaultRewardCatalog returns the built-in catalog used when no config file
// is present.
func DefaultRewardCatalog() RewardCatalog {
	return RewardCatalog{
		Items: []RewardItem{
			{Code: "water-bottle", Name: "Eco-friendly Water Bottle", Description: "Reusable stainless steel bottle", Cost: 20},
			{Code: "seed-pack", Name: "Plant Seeds Pack", Description: "Native wildflower seed mix", Cost: 50},
			{Code: "solar-charger", Name: "Solar Phone Charger", Description: "Portable solar charging panel", Cost: 150},
			{Code: "shopping-bags", Name: "Reusable Shopping Bag Set", Description: "Set of three canvas bags", Cost: 30},
		},
	}
}

// RewardCatalogHolder serves the current catalog and hot-reloads it when the
// config file changes on disk.
type RewardCatalogHolder struct {
	current atomic.Value // holds RewardCatalog
}

// NewRewardCatalogHolder loads rewards.yml and installs a file watcher.
func NewRewardCatalogHolder() (*RewardCatalogHolder, error) {
	v := viper.New()

	v.SetConfigName("rewards")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/carbonctrl/config")
	v.AddConfigPath("/etc/carbonctrl")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CARBONCTRL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	holder := &RewardCatalogHolder{}

	if !fileFound {
		holder.current.Store(DefaultRewardCatalog())
		return holder, nil
	}

	var catalog RewardCatalog
	if err := v.UnmarshalKey("rewards", &catalog); err != nil {
		return nil, err
	}
	if err := validateRewardCatalog(&catalog); err != nil {
		return nil, err
	}
	holder.current.Store(catalog)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RewardCatalog
		if err := v.UnmarshalKey("rewards", &updated); err != nil {
			log.Printf("[rewards-config] reload failed: %v", err)
			return
		}
		if err := validateRewardCatalog(&updated); err != nil {
			log.Printf("[rewards-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[rewards-config] reloaded %d items from %s", len(updated.Items), e.Name)
	})

	return holder, nil
}

// Current returns the active catalog snapshot.
func (h *RewardCatalogHolder) Current() RewardCatalog {
	catalog, _ := h.current.Load().(RewardCatalog)
	return catalog
}

// Item looks up a catalog entry by code.
func (h *RewardCatalogHolder) Item(code string) (RewardItem, bool) {
	code = strings.TrimSpace(code)
	for _, item := range h.Current().Items {
		if item.Code == code {
			return item, true
		}
	}
	return RewardItem{}, false
}

func validateRewardCatalog(catalog *RewardCatalog) error {
	if len(catalog.Items) == 0 {
		return errors.New("rewards catalog must contain at least one item")
	}
	seen := make(map[string]bool, len(catalog.Items))
	for i := range catalog.Items {
		item := &catalog.Items[i]
		if strings.TrimSpace(item.Name) == "" {
			return errors.New("reward item name is required")
		}
		if item.Code == "" {
			item.Code = slug.Make(item.Name)
		}
		if item.Cost <= 0 {
			return errors.New("reward item cost must be positive")
		}
		if seen[item.Code] {
			return errors.New("duplicate reward item code: " + item.Code)
		}
		seen[item.Code] = true
	}
	return nil
}
