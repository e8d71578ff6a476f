package mqtt

import (
	"container/list"
	"net/url"
	"path"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// Queue wraps the MQTT client and dispatches messages to subscriptions.
type Queue struct {
	Client      paho.Client
	TopicPrefix string

	subsLock sync.RWMutex
	subs     map[string]*list.List
}

// Subscription is a subscribed topic.
type Subscription struct {
	Token paho.Token

	queue   *Queue
	elm     *list.Element
	topic   string
	handler Handler
}

// Endpoint is the broker and device addressed by an mqtt:// URL.
type Endpoint struct {
	Options     *paho.ClientOptions
	TopicPrefix string
	Device      string
	// Role is "host" (default) or "device".
	Role string
}

// ParseURL parses mqtt://[user:pass@]broker:port/[prefix/]device.
// Query parameters: client-id and role.
func ParseURL(rawURL string) (*Endpoint, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	server := u.Scheme
	if server == "" || server == "mqtt" {
		server = "tcp"
	}
	server += "://" + u.Host

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	query := u.Query()
	if clientID := query.Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}

	ep := &Endpoint{Options: opts, Role: query.Get("role")}
	p := strings.Trim(u.Path, "/")
	ep.Device = path.Base(p)
	if dir := path.Dir(p); dir != "." && dir != "/" {
		ep.TopicPrefix = dir + "/"
	}
	if ep.Device == "." || ep.Device == "" {
		return nil, &url.Error{Op: "parse", URL: rawURL, Err: errNoDevice}
	}
	return ep, nil
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix, subs: make(map[string]*list.List)}
	options.SetOnConnectHandler(q.onConnect)
	options.SetConnectionLostHandler(q.onConnectionLost)
	q.Client = paho.NewClient(options)
	return q
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub subscribes a topic.
func (q *Queue) Sub(topic string, handler Handler) *Subscription {
	sub := &Subscription{queue: q, topic: topic, handler: handler}
	q.subsLock.Lock()
	lst := q.subs[topic]
	newSub := lst == nil
	if newSub {
		lst = list.New()
		q.subs[topic] = lst
	}
	sub.elm = lst.PushBack(sub)
	q.subsLock.Unlock()

	if newSub {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+topic)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+topic, 0, q.dispatch)
	} else {
		sub.Token = &paho.DummyToken{}
	}
	return sub
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, 0, false, payload)
}

func (q *Queue) resubscribe() paho.Token {
	filters := make(map[string]byte)
	q.subsLock.RLock()
	for topic := range q.subs {
		filters[q.TopicPrefix+topic] = 0
	}
	q.subsLock.RUnlock()
	if len(filters) == 0 {
		return &paho.DummyToken{}
	}
	return q.Client.SubscribeMultiple(filters, q.dispatch)
}

func (q *Queue) onConnect(paho.Client) {
	glog.Info("mqtt connected")
	q.resubscribe()
}

func (q *Queue) onConnectionLost(_ paho.Client, err error) {
	glog.Warningf("mqtt connection lost: %v", err)
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	if glog.V(4) {
		glog.Infof("RCV %q %d bytes", topic, len(msg.Payload()))
	}
	var handlers []Handler
	q.subsLock.RLock()
	if lst := q.subs[topic]; lst != nil {
		for elm := lst.Front(); elm != nil; elm = elm.Next() {
			handlers = append(handlers, elm.Value.(*Subscription).handler)
		}
	}
	q.subsLock.RUnlock()
	for _, h := range handlers {
		h(topic, msg.Payload())
	}
}

// Close unsubscribes the handler.
func (s *Subscription) Close() error {
	q := s.queue
	q.subsLock.Lock()
	lst := q.subs[s.topic]
	var unsub bool
	if lst != nil {
		lst.Remove(s.elm)
		if unsub = lst.Len() == 0; unsub {
			delete(q.subs, s.topic)
		}
	}
	q.subsLock.Unlock()
	if !unsub {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+s.topic)
	token := q.Client.Unsubscribe(q.TopicPrefix + s.topic)
	token.Wait()
	return token.Error()
}
