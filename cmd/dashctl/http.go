package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

func newClient(apiURL string) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetHeader("Accept", "application/json")
}

// doGet fetches path and copies the body to out.
func doGet(apiURL, path string, params url.Values, out io.Writer) error {
	resp, err := newClient(apiURL).R().SetQueryParamsFromValues(params).Get(path)
	if err != nil {
		return err
	}
	return writeBody(resp, out)
}

// doPostJSON posts payload as JSON and copies the body to out.
func doPostJSON(apiURL, path string, payload any, out io.Writer) error {
	resp, err := newClient(apiURL).R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(path)
	if err != nil {
		return err
	}
	return writeBody(resp, out)
}

func writeBody(resp *resty.Response, out io.Writer) error {
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if _, err := out.Write(resp.Body()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}
