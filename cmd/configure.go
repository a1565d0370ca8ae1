package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively create a resume-parser.yaml configuration file",
	RunE: func(_ *cobra.Command, _ []string) error {
		return configure()
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func configure() error {
	keyPrompt := promptui.Prompt{
		Label: "Gemini API key",
		Mask:  '*',
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("api key must not be empty")
			}
			return nil
		},
	}

	apiKey, err := keyPrompt.Run()
	if err != nil {
		return err
	}

	modelSelect := promptui.Select{
		Label: "Gemini model",
		Items: []string{"gemini-flash-latest", "gemini-2.5-flash", "gemini-2.5-pro"},
	}

	_, model, err := modelSelect.Run()
	if err != nil {
		return err
	}

	modeSelect := promptui.Select{
		Label: "Extraction mode",
		Items: []string{modeCombined, modePerField},
	}

	_, mode, err := modeSelect.Run()
	if err != nil {
		return err
	}

	viper.Set("ai.mode", mode)
	viper.Set("ai.gemini.api-key", strings.TrimSpace(apiKey))
	viper.Set("ai.gemini.model", model)

	path := cfgFile
	if path == "" {
		path = app + ".yaml"
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("configuration written to %s\n", path)
	return nil
}
