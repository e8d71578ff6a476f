package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/rtecom/pkg/env"
	"github.com/robotalks/rtecom/pkg/host"
	"github.com/robotalks/rtecom/pkg/transport"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is an open transport with a running client.
type Conn struct {
	URL    string
	Port   io.ReadWriteCloser
	Client *host.Client
	Cancel func()
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Client gets the client of the current connection.
func Client(c *ishell.Context) *host.Client {
	return ShellFrom(c).Conn.Client
}

// requestTimeout bounds a shell command.
const requestTimeout = 30 * time.Second

// RequestContext bounds a whole command, however many requests it sends.
func RequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Output prints v as JSON, or text when JSON is not requested.
func Output(c *ishell.Context, v interface{}, text string) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// ParseUint32 parses decimal or 0x prefixed hex arguments.
func ParseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint32(v), nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the transport at rawURL and starts the client.
func (s *Shell) Connect(rawURL string) error {
	ctx, cancel := context.WithCancel(context.Background())
	port, err := transport.Open(ctx, rawURL)
	if err != nil {
		cancel()
		return err
	}
	if s.Config.SingleWire && !transport.IsSerial(rawURL) {
		port = transport.SingleWire(port)
	}
	client := host.NewClient(port, s.Config.SingleWire)
	client.Timeout = s.Config.ResponseTimeout
	client.MaxChunk = s.Config.MaxTransfer
	s.Disconnect()
	s.Conn = &Conn{URL: rawURL, Port: port, Client: client, Cancel: cancel}
	go func() {
		if err := client.Run(ctx); err != nil && ctx.Err() == nil {
			glog.Errorf("%s: %v", rawURL, err)
		}
	}()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", rawURL))
	return nil
}

// Disconnect closes the current connection.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn.Port.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.URL != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.URL)
		}
		if err := s.Connect(s.Config.URL); err != nil {
			glog.Exitf("connect %q failed: %v", s.Config.URL, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"p"},
		Help:    "list serial ports",
		Func: func(c *ishell.Context) {
			ports, err := transport.SerialPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if ports == nil {
				ports = []string{}
			}
			text := "No serial ports found"
			if len(ports) > 0 {
				text = ""
				for n, port := range ports {
					if n > 0 {
						text += "\n"
					}
					text += "serial://" + port
				}
			}
			Output(c, ports, text)
		},
	}

	// ConnectCmd connects a device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			rawURL := s.Config.URL
			if len(c.Args) > 0 {
				rawURL = c.Args[0]
			}
			if err := s.Connect(rawURL); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.MustResolve()).WithAutoConnect(true).Run(flag.Args()...)
}
