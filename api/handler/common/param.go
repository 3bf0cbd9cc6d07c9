package common

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/solcore-labs/corecollection/codec"
)

func GetParams(c *fiber.Ctx, key string) (string, error) {
	value := strings.TrimSpace(c.Params(key))
	if value == "" {
		return "", fmt.Errorf("missing parameter: %s", key)
	}
	return value, nil
}

// GetAddressParam reads a base58 account address from the path.
func GetAddressParam(c *fiber.Ctx, key string) (string, error) {
	value, err := GetParams(c, key)
	if err != nil {
		return "", err
	}

	pk, err := codec.ParseAddress(key, value)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %s", key, value)
	}
	return pk.String(), nil
}

func GetAccountParam(c *fiber.Ctx) (string, error) {
	return GetAddressParam(c, "account")
}

func GetCollectionAddrParam(c *fiber.Ctx) (string, error) {
	return GetAddressParam(c, "collection_addr")
}

func GetAssetAddrParam(c *fiber.Ctx) (string, error) {
	return GetAddressParam(c, "asset_addr")
}

func GetNameParam(c *fiber.Ctx) (string, error) {
	name, err := GetParams(c, "name")
	if err != nil {
		return "", err
	}
	return name, nil
}
