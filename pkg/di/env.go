package di

// Secrets holds sensitive tokens for GitHub API authentication.
type Secrets struct {
	GitHubToken string
}

// SetFromEnv sets secrets from environment variables.
// INPUT_GITHUBTOKEN is the task input of Azure Pipelines.
func (s *Secrets) SetFromEnv(getEnv func(string) string) {
	for _, envName := range []string{"GUARDRAIL_GITHUB_TOKEN", "INPUT_GITHUBTOKEN", "GITHUB_TOKEN"} {
		if token := getEnv(envName); token != "" {
			s.GitHubToken = token
			return
		}
	}
}

// SetEnv populates flags from environment variables.
func SetEnv(flags *Flags, getEnv func(string) string) {
	flags.GitHubAPIURL = getEnv("GITHUB_API_URL")
	flags.GHESAPIURL = getEnv("GHES_API_URL")
}
