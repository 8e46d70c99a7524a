package version

const VERSION = "v0.3.0"

const UPDATE_MESSAGE = "Sequences can now be longer than two keys and failed launches raise a notification."
