/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allbin/linktest/internal/linktest"
	"github.com/allbin/linktest/internal/tap"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linktest <first-port> <second-port>",
	Short: "Test a serial cable between two ports",
	Long: `Run a conformance suite against two serial ports joined by a
null-modem cable: verify that the RTS/CTS and DTR/DSR handshake pairs
toggle correctly in both directions, then transfer a known byte pattern
both ways at every tested baud rate and handshake-line configuration.

Results are reported in TAP format on stdout, one line per check. The
exit code is non-zero if any check failed or the ports could not be
configured.

Examples:
  linktest /dev/ttyUSB0 /dev/ttyUSB1
  linktest /dev/ttyUSB0 /dev/ttyUSB1 --short
  linktest /dev/ttyUSB0 /dev/ttyUSB1 --baud-rates 9600,115200 -v`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		log := logrus.New()
		log.SetOutput(os.Stderr)
		if viper.GetBool("verbose") {
			log.SetLevel(logrus.DebugLevel)
		}

		suite := &linktest.Suite{
			FirstPath:  args[0],
			SecondPath: args[1],
			BaudRates:  viper.GetIntSlice("baud-rates"),
			Short:      viper.GetBool("short"),
			Log:        log,
		}

		rep := tap.New(os.Stdout, suite.Plan())
		if err := suite.Run(rep); err != nil {
			log.WithError(err).Error("run aborted")
			os.Exit(1)
		}
		if rep.Failed() > 0 {
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.linktest.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug diagnostics to stderr")

	rootCmd.Flags().IntSlice("baud-rates", linktest.DefaultBaudRates, "baud rates to test")
	rootCmd.Flags().Bool("short", false, "use the abbreviated byte pattern and transfer budget")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("baud-rates", rootCmd.Flags().Lookup("baud-rates"))
	viper.BindPFlag("short", rootCmd.Flags().Lookup("short"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".linktest" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".linktest")
	}

	viper.SetEnvPrefix("LINKTEST")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
