package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/rtecom/pkg/rtecom"
	"github.com/robotalks/rtecom/pkg/transport/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/rtecom/device"
)

func init() {
	if val := os.Getenv("RTECOM_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT URL of the device to monitor.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	ep, err := mqtt.ParseURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q := mqtt.NewQueue(ep.Options, ep.TopicPrefix)
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	var sniffer rtecom.Sniffer
	rxTopic, txTopic := ep.Device+"/"+mqtt.TopicRx, ep.Device+"/"+mqtt.TopicTx
	q.Sub(rxTopic, mqtt.Handler(func(topic string, payload []byte) {
		for _, s := range sniffer.Feed(payload) {
			if len(s.Skipped) > 0 {
				log.Printf("%s: skipped % x", topic, s.Skipped)
				continue
			}
			log.Printf("%s: %v", topic, s.Request)
		}
	}))
	q.Sub(txTopic, mqtt.Handler(func(topic string, payload []byte) {
		if len(payload) == 1 && payload[0] == rtecom.Checksum {
			log.Printf("%s: ACK", topic)
			return
		}
		log.Printf("%s: % x", topic, payload)
	}))
	<-(chan struct{})(nil)
}
