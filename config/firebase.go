package config

// FirestoreCollection holds one document per (service, month) when STORE_DRIVER=firestore.
const FirestoreCollection = "serviceAvailability"
