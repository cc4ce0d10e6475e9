package game

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Delays are display pauses in milliseconds. They pace the table for
// human viewers and never affect the state machine itself.
type Delays struct {
	BeforeDeal      uint32 `yaml:"beforeDeal"`
	MoveToNextHand  uint32 `yaml:"moveToNextHand"`
	ResultPerWinner uint32 `yaml:"resultPerWinner"`
}

func DefaultDelays() Delays {
	return Delays{
		BeforeDeal:      500,
		MoveToNextHand:  3000,
		ResultPerWinner: 1500,
	}
}

func ParseDelayConfig(delaysFile string) (Delays, error) {
	bytes, err := os.ReadFile(delaysFile)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error reading delay config file [%s]", delaysFile))
	}

	var data Delays
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error parsing delays YAML file [%s]", delaysFile))
	}

	return data, nil
}
