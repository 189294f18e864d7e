//go:build !embed_model

package provider

import "errors"

const hasEmbeddedModel = false

func extractEmbeddedModel(string) (string, error) {
	return "", errors.New("no embedded model compiled in")
}
