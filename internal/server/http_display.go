package server

import (
	"fmt"
	"io"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo(w io.Writer) {
	s.displayEndpoints(w)
	s.displayAuthInfo(w)
	s.displayRequestLimitInfo(w)
	s.displayRateLimitInfo(w)
	s.displayCollaborators(w)
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET  /health           - Health check")
	fmt.Fprintln(w, "  GET  /stats            - Server statistics")
	fmt.Fprintln(w, "  POST /analyze          - Analyze a job listing (requires API key)")
	fmt.Fprintln(w, "  POST /analyze/link     - Analyze an application link (requires API key)")
	fmt.Fprintln(w, "  POST /analyze/html     - Extract and analyze a page snapshot (requires API key)")
	fmt.Fprintln(w, "  GET  /analyses/{id}    - Fetch a stored analysis (requires API key)")
	fmt.Fprintln(w, "  POST /recommendations  - Rebuild recommendations for a result (requires API key)")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo(w io.Writer) {
	if n := len(s.keys()); n > 0 {
		fmt.Fprintf(w, "API authentication: ENABLED (%d keys configured)\n", n)
		fmt.Fprintln(w, "Include 'X-API-Key: <your-key>' header in analysis requests")
	} else {
		fmt.Fprintln(w, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(w, "WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo(w io.Writer) {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(w, "Request size limit: DISABLED")
		fmt.Fprintln(w, "WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo(w io.Writer) {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(w, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(w, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
		fmt.Fprintln(w, "WARNING: No rate limiting configured!")
	}
}

// displayCollaborators shows which optional collaborators are wired
func (s *Server) displayCollaborators(w io.Writer) {
	if st := s.runtime.Store(); st != nil {
		fmt.Fprintf(w, "Posting history: %s\n", st.Backend())
	} else {
		fmt.Fprintln(w, "Posting history: DISABLED")
	}
	if s.runtime.Cache() != nil {
		fmt.Fprintln(w, "Link cache: redis")
	}
	if s.runtime.AI() != nil {
		fmt.Fprintf(w, "AI verdicts: ENABLED (%s)\n", s.AppConfig.AI.Model)
	} else {
		fmt.Fprintln(w, "AI verdicts: DISABLED")
	}
}
