// Command oscsend sends a single OSC message (or a bundle wrapping it) to a
// UDP peer. Arguments are typed with a tag prefix:
//
//	oscsend --to localhost:8765 /filter/cutoff i:64 f:0.5 s:hello b:deadbeef
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanoosc/nanoosc/osc"
)

var (
	flagTo     string
	flagBundle bool
	flagAt     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "oscsend <address> [tag:value]...",
	Short: "Send an OSC message over UDP",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&flagTo, "to", "localhost:8765", "remote host:port to send to")
	rootCmd.Flags().BoolVar(&flagBundle, "bundle", false, "wrap the message in a bundle")
	rootCmd.Flags().DurationVar(&flagAt, "at", 0, "bundle time tag offset from now (implies --bundle)")
}

func run(cmd *cobra.Command, args []string) error {
	msg := osc.NewMessage(args[0])
	for _, arg := range args[1:] {
		if err := appendArg(msg, arg); err != nil {
			return err
		}
	}

	client, err := osc.Dial(flagTo)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", flagTo, err)
	}
	defer client.Close()

	if flagBundle || flagAt > 0 {
		b := osc.NewBundle()
		if flagAt > 0 {
			b.Timetag = osc.NewTimetagFromTime(time.Now().Add(flagAt))
		}
		b.Append(msg)
		return client.SendBundle(b)
	}
	return client.SendMessage(msg)
}

// appendArg parses one "tag:value" argument onto msg.
func appendArg(msg *osc.Message, arg string) error {
	tag, value, ok := strings.Cut(arg, ":")
	if !ok || len(tag) != 1 {
		return fmt.Errorf("argument %q is not of the form tag:value", arg)
	}

	switch osc.TypeTag(tag[0]) {
	default:
		return fmt.Errorf("unsupported type tag %q", tag)

	case osc.TypeInt32:
		v, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
		msg.AppendInt32(int32(v))

	case osc.TypeInt64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
		msg.AppendInt64(v)

	case osc.TypeFloat32:
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
		msg.AppendFloat32(float32(v))

	case osc.TypeFloat64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
		msg.AppendFloat64(v)

	case osc.TypeString:
		msg.AppendString(value)

	case osc.TypeBlob:
		v, err := hex.DecodeString(value)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
		msg.AppendBlob(v)

	case osc.TypeTimetag:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
		msg.AppendTimetag(osc.Timetag(v))
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
