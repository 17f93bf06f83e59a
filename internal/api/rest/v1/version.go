package v1

// BasePath is the URL prefix of the version 1 API.
const BasePath = "/api/v1/webcrypto"
