package blobstore

import (
	"net/url"

	"github.com/hairyhenderson/go-airdrive/internal/env"
)

// cleanS3URL keeps only the query parameters understood by the Go CDK's s3
// opener, filling in missing ones from the environment
func (o *opener) cleanS3URL(u url.URL) url.URL {
	q := u.Query()
	translateV1Params(q)

	for param := range q {
		switch param {
		case "accelerate",
			"anonymous",
			"disable_https",
			"dualstack",
			"endpoint",
			"fips",
			"hostname_immutable",
			"profile",
			"rate_limiter_capacity",
			"region",
			"use_path_style":
		// server-side encryption applies to writes
		case "kmskeyid", "ssetype":
		default:
			q.Del(param)
		}
	}

	o.setParamsFromEnv(q)

	ensureValidEndpointURL(q)

	u.RawQuery = q.Encode()

	return u
}

// translateV1Params translates v1 query parameters to v2 query parameters.
func translateV1Params(q url.Values) {
	for param := range q {
		switch param {
		// changed to 'disable_https' in s3v2
		case "disableSSL":
			q.Set("disable_https", q.Get(param))
			q.Del(param)
		// changed to 'use_path_style' in s3v2
		case "s3ForcePathStyle":
			q.Set("use_path_style", q.Get(param))
			q.Del(param)
		}
	}
}

func ensureValidEndpointURL(q url.Values) {
	endpoint := q.Get("endpoint")
	if endpoint == "" {
		return
	}

	u, err := url.Parse(endpoint)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return
	}

	// bare host[:port] - pick the scheme from disable_https
	if q.Get("disable_https") == "true" {
		q.Set("endpoint", "http://"+endpoint)
	} else {
		q.Set("endpoint", "https://"+endpoint)
	}
}

func (o *opener) setParamsFromEnv(q url.Values) {
	if q.Get("endpoint") == "" {
		endpoint := env.GetenvFS(o.envfs, "AWS_S3_ENDPOINT")
		if endpoint != "" {
			q.Set("endpoint", endpoint)
		}
	}

	if q.Get("region") == "" {
		region := env.GetenvFS(o.envfs, "AWS_REGION", env.GetenvFS(o.envfs, "AWS_DEFAULT_REGION"))
		if region != "" {
			q.Set("region", region)
		}
	}

	if q.Get("anonymous") == "" {
		anon := env.GetenvFS(o.envfs, "AWS_ANON")
		if anon != "" {
			q.Set("anonymous", anon)
		}
	}
}
