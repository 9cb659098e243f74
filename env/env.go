package env

import (
	"flag"
	"os"
)

type Args struct {
	Test     *bool
	Verbose  *bool
	Insecure *bool
	Debounce *int
}

// ParseArgs registers the station flags on fs and parses args.
func ParseArgs(fs *flag.FlagSet, args []string) (Args, error) {
	a := Args{
		Test:     fs.Bool("test", false, "test mode, readings are logged but never uploaded"),
		Verbose:  fs.Bool("verbose", false, "debug logging"),
		Insecure: fs.Bool("insecure", UseInsecure, "skip TLS certificate validation (non-production only)"),
		Debounce: fs.Int("debounce", 1, "number of water sensor reads to majority vote over"),
	}
	err := fs.Parse(args)
	return a, err
}

// Settings holds the values that may be overridden from the environment.
type Settings struct {
	DeviceID     string
	ServerURL    string
	SSID         string
	Password     string
	MQTTBroker   string
	SendPromData bool
}

func LoadSettings() Settings {
	s := Settings{
		DeviceID:  lookup("AGROKIT_ID", DeviceID),
		ServerURL: lookup("AGROKIT_SERVER_URL", ServerURL),
		SSID:      lookup("AGROKIT_SSID", WifiSSID),
		Password:  lookup("AGROKIT_PASSWORD", WifiPassword),
	}
	s.MQTTBroker, _ = os.LookupEnv("MQTT_BROKER")
	sendData, ok := os.LookupEnv("SENDPROMDATA")
	s.SendPromData = ok && sendData == "true"
	return s
}

func lookup(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
