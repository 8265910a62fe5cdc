// Package security holds the TLS section of the client configuration:
//
//	client:
//	  tls:
//	    ca_file: /etc/netkit/ca.pem
//	    min_version: "1.3"
//
// httpclient builds its default transport from TLSConfig.Build.
package security
