package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

/*
Location payload generator.

Util posts a single location report built from the flags to a running
receiver and prints the verdict.

Usage:
  -tid string
    	Device identifier (require)
  -lat float
    	Latitude
  -lon float
    	Longitude
  -time string
    	Timestamp in RFC 3339 format, defaults to now
  -acc float
    	Accuracy in meters
  -type string
    	Payload type: location, status
  -server string
    	Receiver address in format http://<ip>:<port> (default "http://localhost:8055")
  -timeout int
    	Response waiting time in seconds, Default: 5

Example

```
./payload-gen --tid car1 --lat 41.01 --lon 28.97 --server http://localhost:8055
```
*/

func main() {
	tid := ""
	ts := ""
	lat := 0.0
	lon := 0.0
	acc := 0.0
	server := ""
	timeout := 0
	payloadType := ""

	flag.StringVar(&tid, "tid", "", "Device identifier (require)")
	flag.StringVar(&ts, "time", "", "Timestamp in RFC 3339 format, defaults to now")
	flag.Float64Var(&lat, "lat", 0, "Latitude")
	flag.Float64Var(&lon, "lon", 0, "Longitude")
	flag.Float64Var(&acc, "acc", 0, "Accuracy in meters")
	flag.IntVar(&timeout, "timeout", 0, "Response waiting time in seconds, Default: 5")
	flag.StringVar(&server, "server", "http://localhost:8055", "Receiver address in format http://<ip>:<port>")
	flag.StringVar(&payloadType, "type", "location", "Payload type: location, status")

	flag.Parse()

	if tid == "" {
		fmt.Println("Device identifier is required, see help (-h)")
		os.Exit(1)
	}

	if timeout == 0 {
		timeout = 5
	}

	payload := map[string]interface{}{
		"_type": "location",
		"tid":   tid,
		"lat":   lat,
		"lon":   lon,
	}

	if payloadType == "status" {
		payload = map[string]interface{}{"_type": "status", "tid": tid}
	}

	if acc != 0 {
		payload["acc"] = acc
	}

	if ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			fmt.Printf("Failed to parse the timestamp: %v\n", err)
			os.Exit(1)
		}
		payload["tst"] = parsed.Unix()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode the payload: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	resp, err := client.Post(server+"/location", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Failed to reach the receiver: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	answer, _ := io.ReadAll(resp.Body)
	fmt.Printf("%d %s\n", resp.StatusCode, answer)

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
