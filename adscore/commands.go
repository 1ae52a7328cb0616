package adscore

// Command identifies an ADS command carried in the packet body.
type Command uint16

const (
	CommandDevInfo           Command = 1
	CommandRead              Command = 2
	CommandWrite             Command = 3
	CommandReadState         Command = 4
	CommandWriteControl      Command = 5
	CommandAddNotification   Command = 6
	CommandDeleteNotification Command = 7
	CommandNotification      Command = 8
	CommandReadWrite         Command = 9
	CommandUnknown           Command = 0xFFFF
)

// FromUint16 performs the total conversion from a wire command id.
func FromUint16(id uint16) Command {
	switch Command(id) {
	case CommandDevInfo, CommandRead, CommandWrite, CommandReadState,
		CommandWriteControl, CommandAddNotification, CommandDeleteNotification,
		CommandNotification, CommandReadWrite:
		return Command(id)
	default:
		return CommandUnknown
	}
}

func (c Command) String() string {
	switch c {
	case CommandDevInfo:
		return "dev info"
	case CommandRead:
		return "read"
	case CommandWrite:
		return "write"
	case CommandReadState:
		return "read state"
	case CommandWriteControl:
		return "write control"
	case CommandAddNotification:
		return "add notification"
	case CommandDeleteNotification:
		return "delete notification"
	case CommandNotification:
		return "notification"
	case CommandReadWrite:
		return "read write"
	default:
		return "unknown"
	}
}

// AmsCmd identifies the AMS frame header command. Only AmsCmdCommand is
// supported; any other value on the wire results in ErrUnknownAmsCommand.
type AmsCmd uint16

const AmsCmdCommand AmsCmd = 0x0
