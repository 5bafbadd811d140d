// Package capability discovers which LLM providers the signed-in account has
// configured and which model the account prefers for tagging.
//
// The two provider checks run concurrently and are joined before the model
// preference lookup. Each branch fails closed: an unreachable or malformed
// check reports the provider as unavailable without affecting the other.
package capability
