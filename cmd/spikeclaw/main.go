package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Scan        ScanCommand        `command:"scan" description:"List visible Pybricks hubs"`
	Setup       SetupCommand       `command:"setup" description:"Pick a hub and save the configuration"`
	Install     InstallCommand     `command:"install" description:"Compile and push the dispatcher program to the hub"`
	Test        TestCommand        `command:"test" description:"Run the motor self-test on the hub"`
	Teleoperate TeleoperateCommand `command:"teleoperate" alias:"teleop" description:"Start keyboard/gamepad teleoperation"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "spikeclaw - teleoperation CLI for a LEGO SPIKE Prime claw robot over BLE"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
