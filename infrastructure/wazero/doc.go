// Package wazero inspects compiled extension modules with the wazero runtime.
//
// The inspector compiles a module without instantiating it, so no guest code
// runs and no host functions need to be provided. It reports:
//
//   - the exported functions, including the proxy-wasm entry points
//   - the functions imported from the host, such as env.proxy_log
//   - the ABI version declared by the proxy_abi_version_* marker export
//
// # Basic Usage
//
//	inspector := wazero.NewInspector(
//	    wazero.WithMaxModuleSize(32 << 20),
//	)
//	report, err := inspector.Inspect(ctx, wasm)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.ABIVersion)
package wazero
