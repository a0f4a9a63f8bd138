package conf

import (
	"github.com/spf13/viper"

	"timelapse-frames/internal/sampler"
)

// setDefaults registers default values for every setting.
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("timezone", "Local")

	v.SetDefault("sampler.hour", 12)
	v.SetDefault("sampler.frame", sampler.DefaultFrameMinutes)
	v.SetDefault("sampler.exclusivelastday", false)

	v.SetDefault("features.tagset", "minimal")

	v.SetDefault("train.testfraction", 0.25)
	v.SetDefault("train.seed", 0)
	v.SetDefault("train.maxiter", 1000)
	v.SetDefault("train.l2", 1.0)

	v.SetDefault("model.path", "")
	v.SetDefault("model.dir", "models")

	v.SetDefault("output.sqlite.path", "")
}

// Defaults returns the settings produced by the registered defaults alone.
func Defaults() (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, err
	}
	return s, nil
}
