package util

import (
	"errors"
	u "net/url"
)

func GetDomain(url string) (string, error) {
	parsedUrl, err := u.Parse(url)
	if err != nil {
		return "", err
	}
	if parsedUrl.Hostname() == "" {
		return "", errors.New("invalid url. Url should contain scheme and hostname")
	}

	return parsedUrl.Hostname(), nil
}

func GetBaseUrl(url string) (string, error) {
	parsedUrl, err := u.Parse(url)
	if err != nil {
		return "", err
	}
	if parsedUrl.Scheme == "" || parsedUrl.Hostname() == "" {
		return "", errors.New("invalid url. Url should contain scheme and hostname")
	}

	return parsedUrl.Scheme + "://" + parsedUrl.Host, nil
}

// JoinUrl resolves ref against base the way a browser resolves a link:
// absolute paths replace the base path, absolute urls replace everything.
func JoinUrl(base, ref string) (string, error) {
	baseUrl, err := u.Parse(base)
	if err != nil {
		return "", err
	}
	refUrl, err := u.Parse(ref)
	if err != nil {
		return "", err
	}

	return baseUrl.ResolveReference(refUrl).String(), nil
}
