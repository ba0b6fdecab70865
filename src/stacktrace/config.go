package stacktrace

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	FirstPartyMarkers []string `envconfig:"CULPRIT_FIRST_PARTY_MARKERS" default:"/src/,/app/"`
	VendorMarkers     []string `envconfig:"CULPRIT_VENDOR_MARKERS" default:"node_modules,/vendor/,/pkg/mod/"`
	// GoSourceIsVendor adds this binary's GOROOT source directory to the vendor markers.
	GoSourceIsVendor  bool     `envconfig:"CULPRIT_GO_SOURCE_IS_VENDOR" default:"true"`
	PolicyFile        string   `envconfig:"CULPRIT_POLICY_FILE"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// LoadPolicy builds the culprit policy from config. Lists present in the
// YAML policy file replace the ones coming from the environment.
func LoadPolicy(config Config) (Policy, error) {
	policy, err := loadPolicy(config)
	if config.GoSourceIsVendor {
		policy.VendorMarkers = withGoSource(policy.VendorMarkers)
	}
	return policy, err
}

func loadPolicy(config Config) (Policy, error) {
	policy := Policy{
		FirstPartyMarkers: config.FirstPartyMarkers,
		VendorMarkers:     config.VendorMarkers,
	}
	if config.PolicyFile == "" {
		return policy, nil
	}

	data, err := os.ReadFile(config.PolicyFile)
	if err != nil {
		return policy, fmt.Errorf("read culprit policy %s: %w", config.PolicyFile, err)
	}

	var fromFile Policy
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return policy, fmt.Errorf("parse culprit policy %s: %w", config.PolicyFile, err)
	}
	if len(fromFile.FirstPartyMarkers) > 0 {
		policy.FirstPartyMarkers = fromFile.FirstPartyMarkers
	}
	if len(fromFile.VendorMarkers) > 0 {
		policy.VendorMarkers = fromFile.VendorMarkers
	}
	return policy, nil
}
