package client

import (
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sensorkit/bno055/pkg/bno055"
	"github.com/sensorkit/bno055/pkg/codec"
)

// Client is a struct for communicating with the bno055 daemon
type Client struct {
	socketPath string
	httpClient *http.Client
}

// NewClient is a constructor for creating a new Client
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
					conn, err := net.Dial("unix", socketPath)
					if err != nil {
						// a killed daemon leaves its socket behind, dialing it is refused
						if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
							return nil, pkgerrors.Wrap(ErrDaemonNotRunning, err.Error())
						}
						if errors.Is(err, fs.ErrPermission) {
							return nil, pkgerrors.Wrap(ErrPermissionDenied, err.Error())
						}
						logrus.Errorf("failed to connect to unix socket: %v", err)
						return nil, err
					}
					return conn, err
				},
			},
		},
	}
}

// Send is a method for sending a request to the daemon
func (c *Client) Send(method string, path string, data string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"data":   data,
		"unix":   c.socketPath,
	}).Debug("sending request")

	var resp *http.Response
	var err error
	url := "http://unix" + path

	switch method {
	case "GET":
		resp, err = c.httpClient.Get(url)
	case "POST":
		resp, err = c.httpClient.Post(url, "application/json", strings.NewReader(data))
	case "PUT":
		req, err2 := http.NewRequest("PUT", url, strings.NewReader(data))
		if err2 != nil {
			return "", fmt.Errorf("failed to create request: %w", err2)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err = c.httpClient.Do(req)
	default:
		return "", fmt.Errorf("unknown method: %s", method)
	}

	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	body := string(b)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", responseError(resp.StatusCode, body)
	}

	return body, nil
}

// responseError turns a failed response back into a sentinel error where one
// is known, so callers can test it with errors.Is like a local device error.
// The daemon answers 400 for values it cannot parse, a mode or measurement
// kind name, which codec reports as ErrOutOfRange.
func responseError(code int, body string) error {
	var msg string
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		msg = strings.TrimSpace(body)
	}

	switch code {
	case http.StatusBadRequest:
		return pkgerrors.Wrap(codec.ErrOutOfRange, msg)
	case http.StatusNotFound:
		return pkgerrors.Wrap(ErrNotFound, msg)
	case http.StatusConflict:
		return pkgerrors.Wrap(bno055.ErrFusionRequired, msg)
	case http.StatusPreconditionFailed:
		return pkgerrors.Wrap(ErrNoCalibrationFile, msg)
	default:
		return fmt.Errorf("got %d: %s", code, msg)
	}
}

// Get is a method for sending a GET request to the daemon
func (c *Client) Get(path string) (string, error) {
	return c.Send("GET", path, "")
}

// Put is a method for sending a PUT request to the daemon
func (c *Client) Put(path string, data string) (string, error) {
	return c.Send("PUT", path, data)
}

// Post is a method for sending a POST request to the daemon
func (c *Client) Post(path string, data string) (string, error) {
	return c.Send("POST", path, data)
}

func (c *Client) getJSON(path string, v any) error {
	ret, err := c.Get(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ret), v); err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal response of %s", path)
	}
	return nil
}
