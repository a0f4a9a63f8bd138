// Timelapse Frames - select and classify usable timelapse frames
//
// A timelapse camera writes one frame every few minutes as pic_<unix>.jpg.
// This tool picks one representative frame per day and classifies frames as
// open or closed (shutter, door, curtain) from their EXIF exposure metadata
// with a logistic-regression model.
//
// Usage:
//
//	timelapse-frames init                                  # Create project structure
//	timelapse-frames dataset data data/processed           # Timestamps + training features
//	timelapse-frames sample data/raw --hour 12 --copy-to selected/
//	timelapse-frames train data/processed/training-features.txt
//	timelapse-frames predict selected/ --model models/<model>.gob
//
// Expected directory structure:
//
//	project/
//	├── config.yaml
//	├── data/
//	│   ├── raw/          <- all frames
//	│   ├── by-class/     <- open/ and closed/ training frames
//	│   └── processed/    <- generated lists and tables
//	└── models/
package main

import (
	"fmt"
	"os"

	"timelapse-frames/cmd"
	"timelapse-frames/internal/conf"
)

func main() {
	ctx := conf.NewContext()

	if err := cmd.RootCommand(ctx).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
