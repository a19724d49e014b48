package model

// Version is overridden at build time with -ldflags "-X workorder/internal/model.Version=...".
var Version = "dev"
