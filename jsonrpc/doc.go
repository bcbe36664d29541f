/*
	Package jsonrpc implements a JSON-RPC 1.1 client for self-describing
	services, where the transport is a pluggable collaborator.

	Services are self-describing: each service lists its supported
	procedures, and each procedure declares its parameters and return
	type. A Client retrieves this description with the reserved
	system.describe procedure when it is constructed, and uses it to
	decode replies against the declared return types. Client code can
	read the description through ServiceDescription().

	Transport is the collaborator that performs one blocking, correlated
	round trip per request. Request correlation, delivery guarantees and
	connection lifecycle belong to the transport, not to this package.

	Mapper is the collaborator that converts request envelopes to wire
	strings and parses reply strings against an expected type tag. A
	default mapper built on encoding/json is used when none is supplied.

	Server is the other half for tests and hosting: a reflection-based
	method registry that answers system.describe from its registered
	receivers. Local glues a Client directly to a Server without a wire.
*/
package jsonrpc
