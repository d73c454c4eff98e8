package validators

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/btraven00/twtext/internal/extractor"
)

// KindValidator validates one kind of input, such as a username or a whole
// message.
type KindValidator interface {
	// Name returns the unique name of this validator (e.g., "username", "url")
	Name() string

	// Description returns a human-readable description of what this validator handles
	Description() string

	// CanValidate checks if this validator can handle the given input without performing validation
	CanValidate(input string) bool

	// Validate performs the actual validation and returns detailed results
	Validate(ctx context.Context, input string) (*ValidationResult, error)

	// Examples returns valid inputs, for documentation and help
	Examples() []string

	// Priority returns the priority of this validator (higher = checked first)
	Priority() int
}

// ValidationResult represents the result of validating one input.
type ValidationResult struct {
	Valid      bool   `json:"valid"`
	Input      string `json:"input"`
	Kind       string `json:"kind"`
	Message    string `json:"message,omitempty"`
	Normalized string `json:"normalized,omitempty"`

	// Set for whole messages.
	Parse    *extractor.ParseResults `json:"parse,omitempty"`
	Entities []extractor.Entity      `json:"entities,omitempty"`

	ValidationTime time.Duration `json:"validation_time"`
}

// Registry manages kind validators.
type Registry struct {
	validators map[string]KindValidator
	sorted     []KindValidator // Sorted by priority
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[string]KindValidator),
		sorted:     make([]KindValidator, 0),
	}
}

// NewDefaultRegistry creates a registry holding every built-in kind, backed by v.
func NewDefaultRegistry(v *Validator) *Registry {
	r := NewRegistry()
	for _, kv := range builtinKinds(v) {
		// Names are unique, so registration cannot fail.
		_ = r.Register(kv)
	}
	return r
}

// Register adds a validator to the registry.
func (r *Registry) Register(validator KindValidator) error {
	name := validator.Name()
	if _, exists := r.validators[name]; exists {
		return &RegistryError{
			Type:    ErrorTypeDuplicate,
			Message: "validator with name '" + name + "' already exists",
		}
	}

	r.validators[name] = validator
	r.rebuildSorted()
	return nil
}

// Unregister removes a validator from the registry.
func (r *Registry) Unregister(name string) error {
	if _, exists := r.validators[name]; !exists {
		return &RegistryError{
			Type:    ErrorTypeNotFound,
			Message: "validator with name '" + name + "' not found",
		}
	}

	delete(r.validators, name)
	r.rebuildSorted()
	return nil
}

// Get retrieves a validator by name.
func (r *Registry) Get(name string) (KindValidator, bool) {
	validator, exists := r.validators[name]
	return validator, exists
}

// GetAll returns all registered validators sorted by priority.
func (r *Registry) GetAll() []KindValidator {
	return r.sorted
}

// FindValidators returns validators that can handle the given input.
func (r *Registry) FindValidators(input string) []KindValidator {
	var candidates []KindValidator
	for _, validator := range r.sorted {
		if validator.CanValidate(input) {
			candidates = append(candidates, validator)
		}
	}
	return candidates
}

// Validate validates input as the named kind.
func (r *Registry) Validate(ctx context.Context, kind, input string) (*ValidationResult, error) {
	validator, ok := r.Get(kind)
	if !ok {
		return nil, &RegistryError{
			Type:    ErrorTypeNotFound,
			Message: "validator with name '" + kind + "' not found",
		}
	}
	return validator.Validate(ctx, input)
}

// ValidateWithBest validates input with the highest priority validator that
// accepts it.
func (r *Registry) ValidateWithBest(ctx context.Context, input string) (*ValidationResult, error) {
	candidates := r.FindValidators(input)
	if len(candidates) == 0 {
		return nil, &RegistryError{
			Type:    ErrorTypeNoValidator,
			Message: "no validator found for input: " + input,
		}
	}
	return candidates[0].Validate(ctx, input)
}

// ValidateWithAll validates input with every validator that accepts it.
func (r *Registry) ValidateWithAll(ctx context.Context, input string) ([]*ValidationResult, error) {
	candidates := r.FindValidators(input)
	if len(candidates) == 0 {
		return nil, &RegistryError{
			Type:    ErrorTypeNoValidator,
			Message: "no validator found for input: " + input,
		}
	}

	results := make([]*ValidationResult, 0, len(candidates))
	for _, validator := range candidates {
		result, err := validator.Validate(ctx, input)
		if err != nil {
			result = &ValidationResult{
				Valid:   false,
				Input:   input,
				Kind:    validator.Name(),
				Message: err.Error(),
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// ListValidators returns metadata about all registered validators.
func (r *Registry) ListValidators() []ValidatorInfo {
	info := make([]ValidatorInfo, 0, len(r.sorted))
	for _, validator := range r.sorted {
		info = append(info, ValidatorInfo{
			Name:        validator.Name(),
			Description: validator.Description(),
			Priority:    validator.Priority(),
			Examples:    validator.Examples(),
		})
	}
	return info
}

// Names returns the registered names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.sorted))
	for i, validator := range r.sorted {
		names[i] = validator.Name()
	}
	return names
}

// rebuildSorted orders validators by priority (descending) then by name.
func (r *Registry) rebuildSorted() {
	r.sorted = make([]KindValidator, 0, len(r.validators))
	for _, validator := range r.validators {
		r.sorted = append(r.sorted, validator)
	}
	sort.Slice(r.sorted, func(i, j int) bool {
		pi, pj := r.sorted[i].Priority(), r.sorted[j].Priority()
		if pi != pj {
			return pi > pj
		}
		return r.sorted[i].Name() < r.sorted[j].Name()
	})
}

// ValidatorInfo contains metadata about a validator.
type ValidatorInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	Examples    []string `json:"examples"`
}

// RegistryError represents errors from the validator registry.
type RegistryError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

func (e *RegistryError) Error() string {
	return e.Message
}

// ErrorType defines types of registry errors.
type ErrorType string

const (
	ErrorTypeDuplicate   ErrorType = "duplicate"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeNoValidator ErrorType = "no_validator"
)

// kind is a KindValidator built from functions.
type kind struct {
	name        string
	description string
	priority    int
	examples    []string
	accepts     func(string) bool
	validate    func(string, *ValidationResult)
}

func (k *kind) Name() string        { return k.name }
func (k *kind) Description() string { return k.description }
func (k *kind) Priority() int       { return k.priority }
func (k *kind) Examples() []string  { return k.examples }

func (k *kind) CanValidate(input string) bool {
	return k.accepts(input)
}

func (k *kind) Validate(ctx context.Context, input string) (*ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &ValidationResult{Input: input, Kind: k.name}
	k.validate(input, result)
	if result.Message == "" {
		if result.Valid {
			result.Message = "valid " + k.name
		} else {
			result.Message = "not a valid " + k.name
		}
	}
	result.ValidationTime = time.Since(start)
	return result, nil
}

// Kind names understood by the default registry.
const (
	KindTweet              = "tweet"
	KindUsername           = "username"
	KindList               = "list"
	KindHashtag            = "hashtag"
	KindURL                = "url"
	KindURLWithoutProtocol = "url_without_protocol"
)

func builtinKinds(v *Validator) []KindValidator {
	return []KindValidator{
		&kind{
			name:        KindList,
			description: "List reference: @owner/slug",
			priority:    90,
			examples:    []string{"@twitter/team"},
			accepts: func(s string) bool {
				return hasSigil(s, "@", "＠") && strings.Contains(s, "/")
			},
			validate: func(s string, res *ValidationResult) {
				res.Valid = v.IsValidList(s)
				if res.Valid {
					res.Normalized = trimFirstRune(s)
				}
			},
		},
		&kind{
			name:        KindUsername,
			description: "Screen name: @ followed by up to 20 letters, digits or underscores",
			priority:    80,
			examples:    []string{"@alice", "＠alice_2"},
			accepts: func(s string) bool {
				return hasSigil(s, "@", "＠")
			},
			validate: func(s string, res *ValidationResult) {
				res.Valid = v.IsValidUsername(s)
				if res.Valid {
					res.Normalized = trimFirstRune(s)
				}
			},
		},
		&kind{
			name:        KindHashtag,
			description: "Hashtag: # followed by letters, marks, digits or underscores",
			priority:    80,
			examples:    []string{"#golang", "＃日本語"},
			accepts: func(s string) bool {
				return hasSigil(s, "#", "＃")
			},
			validate: func(s string, res *ValidationResult) {
				res.Valid = v.IsValidHashtag(s)
				if res.Valid {
					res.Normalized = trimFirstRune(s)
				}
			},
		},
		&kind{
			name:        KindURL,
			description: "URL with http or https protocol and a known top-level domain",
			priority:    70,
			examples:    []string{"https://example.com/path?q=1"},
			accepts: func(s string) bool {
				lower := strings.ToLower(s)
				return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
			},
			validate: func(s string, res *ValidationResult) {
				res.Valid = v.IsValidURL(s)
			},
		},
		&kind{
			name:        KindURLWithoutProtocol,
			description: "Domain with a known top-level domain, without protocol",
			priority:    60,
			examples:    []string{"example.com", "www.example.co.jp/path"},
			accepts: func(s string) bool {
				return strings.Contains(s, ".") && !strings.ContainsAny(s, " \t\n") && !strings.Contains(s, "://")
			},
			validate: func(s string, res *ValidationResult) {
				res.Valid = v.IsValidURLWithoutProtocol(s)
			},
		},
		&kind{
			name:        KindTweet,
			description: "Whole message within the weighted length limit",
			priority:    0,
			examples:    []string{"Hello @alice, see https://example.com #news"},
			accepts:     func(string) bool { return true },
			validate: func(s string, res *ValidationResult) {
				parsed := v.parser.ExtractEntitiesWithIndices(s)
				res.Valid = parsed.ParseResults.IsValid
				res.Parse = &parsed.ParseResults
				res.Entities = parsed.Entities
				switch {
				case s == "":
					res.Message = "empty message"
				case !res.Valid && parsed.ParseResults.WeightedLength > v.MaxTweetLength():
					res.Message = "message too long"
				}
			},
		},
	}
}

func trimFirstRune(s string) string {
	for i := range s {
		if i > 0 {
			return s[i:]
		}
	}
	return ""
}
