package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ReadKey returns the first line of the file at path.
func ReadKey(path string) (key string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error reading key: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	keyb, _, err := r.ReadLine()
	if err != nil {
		return "", fmt.Errorf("error reading line: %w", err)
	}
	return strings.TrimSpace(string(keyb)), nil
}

// VerifyPermissions fails unless the file at path is readable by its owner only.
func VerifyPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error checking keyfile permissions: %w", err)
	}

	perms := info.Mode().Perm()
	// 0400 is accepted too: secrets managers often mount files read-only.
	if perms != 0600 && perms != 0400 {
		return fmt.Errorf("invalid permissions for \"%s\": expected file permissions \"-rw-------\"; found \"%s\"", path, fs.FileMode(perms))
	}

	return nil
}

// WriteKey creates the file at path with mode 0600 and writes key to it.
// It refuses to overwrite an existing file.
func WriteKey(path, key string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("unable to create \"%s\": %w", path, err)
	}
	_, err = fmt.Fprintln(f, key)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing \"%s\": %w", path, err)
	}
	return nil
}
