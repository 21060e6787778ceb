package entities

import "fmt"

// CommandName identifies a one-way command sent into the script runtime.
type CommandName string

// Commands understood by the runtime script.
const (
	CommandStartVideo          CommandName = "startVideo"
	CommandStopVideo           CommandName = "stopVideo"
	CommandSetCameraFacingMode CommandName = "setCameraFacingMode"
	CommandTeardown            CommandName = "teardown"
)

// Command is an outbound invocation. FrontFacing is only used by
// CommandSetCameraFacingMode.
type Command struct {
	Name        CommandName
	FrontFacing bool
}

// StartVideo returns the command that starts capture and inference.
func StartVideo() Command { return Command{Name: CommandStartVideo} }

// StopVideo returns the command that stops capture.
func StopVideo() Command { return Command{Name: CommandStopVideo} }

// SetCameraFacingMode returns the command that switches the capture camera.
func SetCameraFacingMode(front bool) Command {
	return Command{Name: CommandSetCameraFacingMode, FrontFacing: front}
}

// Teardown returns the command that releases runtime resources.
func Teardown() Command { return Command{Name: CommandTeardown} }

// Script renders the command as a script statement, e.g. "startVideo();".
func (c Command) Script() string {
	if c.Name == CommandSetCameraFacingMode {
		return fmt.Sprintf("%s(%t);", c.Name, c.FrontFacing)
	}
	return string(c.Name) + "();"
}

func (c Command) String() string {
	if c.Name == CommandSetCameraFacingMode {
		return fmt.Sprintf("%s(%t)", c.Name, c.FrontFacing)
	}
	return string(c.Name)
}
