package eventmodels

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PipelineYAML holds the tunables of the intake/execution pipeline, loaded
// from a yaml file at startup.
type PipelineYAML struct {
	DedupWindowSeconds        int      `yaml:"dedup_window_seconds"`
	MonitorPeriodSeconds      int      `yaml:"monitor_period_seconds"`
	GainAlertPct              float64  `yaml:"gain_alert_pct"`
	LossAlertPct              float64  `yaml:"loss_alert_pct"`
	PriceDiscoverySeconds     int      `yaml:"price_discovery_seconds"`
	PriceDiscoveryIntervalMs  int      `yaml:"price_discovery_interval_ms"`
	DefaultBuyQuantity        int      `yaml:"default_buy_quantity"`
	DefaultSellQuantity       int      `yaml:"default_sell_quantity"`
	IntakeRatePerSecond       float64  `yaml:"intake_rate_per_second"`
	IntakeBurst               int      `yaml:"intake_burst"`
	AllowedSenders            []string `yaml:"allowed_senders"`
	ExecutionQueueSize        int      `yaml:"execution_queue_size"`
	CompletionModel           string   `yaml:"completion_model"`
	CompletionMaxRetries      int      `yaml:"completion_max_retries"`
}

func NewDefaultPipelineYAML() *PipelineYAML {
	return &PipelineYAML{
		DedupWindowSeconds:       10,
		MonitorPeriodSeconds:     300,
		GainAlertPct:             50,
		LossAlertPct:             -30,
		PriceDiscoverySeconds:    10,
		PriceDiscoveryIntervalMs: 200,
		DefaultBuyQuantity:       2,
		DefaultSellQuantity:      1,
		IntakeRatePerSecond:      5,
		IntakeBurst:              20,
		ExecutionQueueSize:       999,
		CompletionModel:          "gpt-4o",
		CompletionMaxRetries:     5,
	}
}

func LoadPipelineYAML(path string) (*PipelineYAML, error) {
	config := NewDefaultPipelineYAML()

	if path == "" {
		return config, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadPipelineYAML: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, fmt.Errorf("LoadPipelineYAML: failed to unmarshal %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("LoadPipelineYAML: invalid config: %w", err)
	}

	return config, nil
}

func (c *PipelineYAML) Validate() error {
	if c.DedupWindowSeconds <= 0 {
		return fmt.Errorf("dedup_window_seconds must be positive")
	}

	if c.MonitorPeriodSeconds <= 0 {
		return fmt.Errorf("monitor_period_seconds must be positive")
	}

	if c.LossAlertPct >= 0 {
		return fmt.Errorf("loss_alert_pct must be negative")
	}

	if c.GainAlertPct <= 0 {
		return fmt.Errorf("gain_alert_pct must be positive")
	}

	if c.DefaultBuyQuantity <= 0 || c.DefaultSellQuantity <= 0 {
		return fmt.Errorf("default quantities must be positive")
	}

	if c.ExecutionQueueSize <= 0 {
		return fmt.Errorf("execution_queue_size must be positive")
	}

	return nil
}

func (c *PipelineYAML) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowSeconds) * time.Second
}

func (c *PipelineYAML) MonitorPeriod() time.Duration {
	return time.Duration(c.MonitorPeriodSeconds) * time.Second
}

func (c *PipelineYAML) PriceDiscoveryTimeout() time.Duration {
	return time.Duration(c.PriceDiscoverySeconds) * time.Second
}

func (c *PipelineYAML) PriceDiscoveryInterval() time.Duration {
	return time.Duration(c.PriceDiscoveryIntervalMs) * time.Millisecond
}
