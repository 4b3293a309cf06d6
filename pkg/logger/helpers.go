package logger

import (
	"fmt"
	"strings"
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info("✅ " + message)
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message
func Progress(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info("🔄 " + message)
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

// Section prints a visual section separator
func Section(title string) {
	line := strings.Repeat("-", 74)

	if l, ok := defaultLogger.(*logger); ok && !l.noColor {
		fmt.Println(colorCyan + line + colorReset)
		fmt.Println(colorCyan + colorBold + title + colorReset)
		fmt.Println(colorCyan + line + colorReset)
	} else {
		fmt.Println(line)
		fmt.Println(title)
		fmt.Println(line)
	}
}

// KeyValue prints a key-value pair with the key accented
func KeyValue(key string, value interface{}) {
	if l, ok := defaultLogger.(*logger); ok && !l.noColor {
		fmt.Printf("%s%s:%s %v\n", colorCyan, key, colorReset, value)
	} else {
		fmt.Printf("%s: %v\n", key, value)
	}
}
