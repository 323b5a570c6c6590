package spec

import (
    "regexp"
    "strings"
)

// FilterOption narrows the operations kept by Filter.
type FilterOption func(*filterConfig)

type filterConfig struct {
    includeTags map[string]struct{}
    excludeTags map[string]struct{}
    methods     map[string]struct{}
    pathRes     []*regexp.Regexp
}

// WithIncludeTags keeps only operations that have at least one of the given tags.
func WithIncludeTags(tags []string) FilterOption {
    return func(c *filterConfig) {
        if len(tags) == 0 {
            return
        }
        if c.includeTags == nil {
            c.includeTags = make(map[string]struct{}, len(tags))
        }
        for _, t := range tags {
            t = strings.TrimSpace(t)
            if t == "" {
                continue
            }
            c.includeTags[t] = struct{}{}
        }
    }
}

// WithExcludeTags removes operations that have any of the given tags.
func WithExcludeTags(tags []string) FilterOption {
    return func(c *filterConfig) {
        if len(tags) == 0 {
            return
        }
        if c.excludeTags == nil {
            c.excludeTags = make(map[string]struct{}, len(tags))
        }
        for _, t := range tags {
            t = strings.TrimSpace(t)
            if t == "" {
                continue
            }
            c.excludeTags[t] = struct{}{}
        }
    }
}

// WithMethods keeps only operations using one of the provided HTTP methods.
func WithMethods(methods []string) FilterOption {
    return func(c *filterConfig) {
        if len(methods) == 0 {
            return
        }
        if c.methods == nil {
            c.methods = make(map[string]struct{}, len(methods))
        }
        for _, m := range methods {
            c.methods[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
        }
    }
}

// WithPathPatterns keeps only operations whose path matches at least one of
// the provided regular expressions. An invalid pattern matches nothing.
func WithPathPatterns(patterns []string) FilterOption {
    return func(c *filterConfig) {
        for _, p := range patterns {
            p = strings.TrimSpace(p)
            if p == "" {
                continue
            }
            re, err := regexp.Compile(p)
            if err != nil {
                re = regexp.MustCompile("a^$")
            }
            c.pathRes = append(c.pathRes, re)
        }
    }
}

// Filter returns a shallow copy of doc holding only the operations accepted
// by opts. Paths left without operations are dropped. Definitions are kept
// as-is since they may be referenced from anywhere.
func Filter(doc *Document, opts ...FilterOption) *Document {
    if doc == nil {
        return nil
    }
    var cfg filterConfig
    for _, opt := range opts {
        opt(&cfg)
    }
    if len(cfg.includeTags) == 0 && len(cfg.excludeTags) == 0 && len(cfg.methods) == 0 && len(cfg.pathRes) == 0 {
        return doc
    }

    out := *doc
    out.Paths = nil
    for _, item := range doc.Paths {
        if !allowByPath(item.Path, &cfg) {
            continue
        }
        kept := &PathItem{Path: item.Path, Parameters: item.Parameters}
        for _, op := range item.Operations {
            if len(cfg.methods) > 0 {
                if _, ok := cfg.methods[op.Method]; !ok {
                    continue
                }
            }
            if !allowByTags(op.Tags, &cfg) {
                continue
            }
            kept.Operations = append(kept.Operations, op)
        }
        if len(kept.Operations) > 0 {
            out.Paths = append(out.Paths, kept)
        }
    }
    return &out
}

func allowByPath(path string, cfg *filterConfig) bool {
    if len(cfg.pathRes) == 0 {
        return true
    }
    for _, re := range cfg.pathRes {
        if re.MatchString(path) {
            return true
        }
    }
    return false
}

func allowByTags(tags []string, cfg *filterConfig) bool {
    if len(cfg.includeTags) > 0 {
        ok := false
        for _, t := range tags {
            if _, yes := cfg.includeTags[t]; yes {
                ok = true
                break
            }
        }
        if !ok {
            return false
        }
    }
    for _, t := range tags {
        if _, blocked := cfg.excludeTags[t]; blocked {
            return false
        }
    }
    return true
}
