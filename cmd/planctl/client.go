package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	c := resty.New().
		SetBaseURL(apiFlag).
		SetTimeout(15 * time.Second)
	if tokenFlag != "" {
		c.SetAuthToken(tokenFlag)
	}
	return c
}

// doGet fetches path and returns the raw body, failing on non-2xx.
func doGet(path string) ([]byte, error) {
	resp, err := newClient().R().Get(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: %s: %s", path, resp.Status(), resp.Body())
	}
	return resp.Body(), nil
}

func doPostJSON(path string, payload interface{}) ([]byte, error) {
	resp, err := newClient().R().SetBody(payload).Post(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("POST %s: %s: %s", path, resp.Status(), resp.Body())
	}
	return resp.Body(), nil
}

func doPutJSON(path string, payload interface{}) ([]byte, error) {
	resp, err := newClient().R().SetBody(payload).Put(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("PUT %s: %s: %s", path, resp.Status(), resp.Body())
	}
	return resp.Body(), nil
}
