package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRegistryLocation checks the directory that holds, or will hold, the
// registry file. A missing directory passes when its nearest existing
// ancestor is writable.
func CheckRegistryLocation(name, registryPath string) Result {
	dir := filepath.Dir(registryPath)
	if _, err := os.Stat(dir); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, dir)
	}
	for ancestor := filepath.Dir(dir); ; ancestor = filepath.Dir(ancestor) {
		if _, err := os.Stat(ancestor); err == nil {
			check := CheckDirectoryAccess(name, ancestor)
			if !check.Passed {
				return check
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created under %s)", dir, ancestor)}
		}
		if ancestor == filepath.Dir(ancestor) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", dir)}
		}
	}
}

// CheckOptionalFile passes when path is absent or a readable regular file.
func CheckOptionalFile(name, path string) Result {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not present)", path)}
	}
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckQueueLimits compares the configured creation defaults with the
// msg_max and msgsize_max sysctls found in procDir.
func CheckQueueLimits(name, procDir string, maxMessages, messageSize int) Result {
	msgMax, err := readSysctl(procDir, "msg_max")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	msgsizeMax, err := readSysctl(procDir, "msgsize_max")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}

	var problems []string
	if maxMessages > msgMax {
		problems = append(problems, fmt.Sprintf("default_max_messages %d exceeds msg_max %d", maxMessages, msgMax))
	}
	if messageSize > msgsizeMax {
		problems = append(problems, fmt.Sprintf("default_message_size %d exceeds msgsize_max %d", messageSize, msgsizeMax))
	}
	if len(problems) > 0 {
		return Result{Name: name, Detail: strings.Join(problems, "; ")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("msg_max %d, msgsize_max %d", msgMax, msgsizeMax)}
}

func readSysctl(dir, key string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dir, key))
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}
