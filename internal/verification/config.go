package verification

import "fmt"

// Config holds the confidence thresholds that separate automatic approval,
// approval with review, and manual review.
type Config struct {
	AutoApproveThreshold float64 `toml:"auto_approve_threshold"`
	ReviewThreshold      float64 `toml:"review_threshold"`
}

// Finalize applies defaults and validation.
func (c *Config) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.AutoApproveThreshold != 0 {
		c.AutoApproveThreshold = overlay.AutoApproveThreshold
	}
	if overlay.ReviewThreshold != 0 {
		c.ReviewThreshold = overlay.ReviewThreshold
	}
}

func (c *Config) loadDefaults() {
	if c.AutoApproveThreshold == 0 {
		c.AutoApproveThreshold = 0.8
	}
	if c.ReviewThreshold == 0 {
		c.ReviewThreshold = 0.6
	}
}

func (c *Config) validate() error {
	if c.AutoApproveThreshold <= 0 || c.AutoApproveThreshold > 1 {
		return fmt.Errorf("auto_approve_threshold must be in (0, 1]: %f", c.AutoApproveThreshold)
	}
	if c.ReviewThreshold <= 0 || c.ReviewThreshold > 1 {
		return fmt.Errorf("review_threshold must be in (0, 1]: %f", c.ReviewThreshold)
	}
	if c.ReviewThreshold > c.AutoApproveThreshold {
		return fmt.Errorf(
			"review_threshold %f exceeds auto_approve_threshold %f",
			c.ReviewThreshold, c.AutoApproveThreshold,
		)
	}
	return nil
}
