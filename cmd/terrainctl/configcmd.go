package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/midgard-terrain/internal/config"
)

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: terrainctl config show|save [path]")
	}

	switch args[0] {
	case "show":
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "save":
		if len(args) > 1 {
			if err := cfg.SaveTo(args[1]); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", args[1])
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", config.ConfigDir())
		return nil
	default:
		return fmt.Errorf("unknown config action %q", args[0])
	}
}
