package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var propertiesRegexp = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|(\w+))`)

type DependencyAnnotation struct {
	logger     *zerolog.Logger
	properties map[string]string
}

func (a DependencyAnnotation) String() string {
	return fmt.Sprintf("DependencyAnnotation(%q)", a.properties)
}

func (a DependencyAnnotation) Named() (named string, found bool) {
	named, found = a.properties["named"]
	return named, found
}

var knownProperties = []string{"named"}

func (a DependencyAnnotation) UnknownProperties() []string {
	var unknown []string
	for key := range a.properties {
		if !contains(knownProperties, key) {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// parseDependencyAnnotation looks for the @dependency line in a comment text, with or without
// the comment markers.
func parseDependencyAnnotation(logger *zerolog.Logger, text string) (DependencyAnnotation, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
		if line != dependencyAnnotationTag && !strings.HasPrefix(line, dependencyAnnotationTag+" ") {
			continue
		}

		annotation := DependencyAnnotation{
			logger:     logger,
			properties: parseProperties(line, dependencyAnnotationTag),
		}
		for _, unknown := range annotation.UnknownProperties() {
			logger.Warn().Msgf("Unknown property %s in annotation, ignoring it", unknown)
		}
		return annotation, true
	}
	return DependencyAnnotation{}, false
}

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	if line == "" {
		return properties
	}

	// remove "@dependency" prefix
	content := strings.TrimPrefix(line, tag)
	content = strings.TrimSpace(content)

	if content == "" {
		return properties
	}

	for _, match := range propertiesRegexp.FindAllStringSubmatch(content, -1) {
		key := match[1]
		// match[2] is quoted value, match[3] is unquoted value
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}

	return properties
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
