package service

// ScopesSufficient reports whether the granted scopes cover every required
// scope. The equivalents map records provider scopes that subsume others,
// e.g. {"public_repo": "repo", "user:email": "user"}: a grant of "repo"
// satisfies a requirement of "public_repo".
func ScopesSufficient(granted, required []string, equivalents map[string]string) bool {
	have := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		have[s] = struct{}{}
	}

	for _, req := range required {
		if _, ok := have[req]; ok {
			continue
		}
		if wider, ok := equivalents[req]; ok {
			if _, ok := have[wider]; ok {
				continue
			}
		}
		return false
	}
	return true
}
