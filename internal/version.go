package internal

// Version is the application version reported by --version.
const Version = "0.3.1"
