package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
)

const updateRepo = "awsdevop183/RaspberryPi-Monitor"

type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// selfUpdate replaces the running binary with the latest release asset for
// this platform.
func selfUpdate() error {
	url, tag, err := latestReleaseURL()
	if err != nil {
		return err
	}

	tmpPath, err := downloadBinary(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", tag, err)
	}
	defer os.Remove(tmpPath)

	return replaceExecutable(tmpPath)
}

func latestReleaseURL() (url, tag string, err error) {
	resp, err := http.Get("https://api.github.com/repos/" + updateRepo + "/releases/latest")
	if err != nil {
		return "", "", fmt.Errorf("fetch release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github API returned %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", fmt.Errorf("parse release: %w", err)
	}

	suffix := runtime.GOOS + "-" + runtime.GOARCH
	for _, asset := range release.Assets {
		if strings.Contains(asset.Name, suffix) {
			return asset.BrowserDownloadURL, release.TagName, nil
		}
	}
	return "", "", fmt.Errorf("no binary for %s in release %s", suffix, release.TagName)
}

func downloadBinary(url string) (string, error) {
	tmpFile, err := os.CreateTemp("", "rpi-monitor-update-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer tmpFile.Close()

	resp, err := http.Get(url)
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	if err := os.Chmod(tmpFile.Name(), 0755); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	return tmpFile.Name(), nil
}

func replaceExecutable(tmpPath string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("get executable path: %w", err)
	}

	if err := os.Rename(tmpPath, execPath); err == nil {
		return nil
	}

	// Rename fails across filesystems; fall back to rewriting in place.
	src, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("open temp: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(execPath, os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("open dest (may need sudo): %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy binary: %w", err)
	}
	return nil
}
